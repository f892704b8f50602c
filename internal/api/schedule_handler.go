package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/domain"
	"github.com/reelinbookings/backend/pkg/response"
	"github.com/reelinbookings/backend/pkg/validator"
)

// ScheduleHandler exposes the appointment lifecycle operations to the
// booking dashboard.
type ScheduleHandler struct {
	service *domain.ScheduleService
	logger  *zap.Logger
}

func NewScheduleHandler(service *domain.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger,
	}
}

type dashboardResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
	Staff        []*domain.Staff      `json:"staff"`
}

// Dashboard returns the full schedule and roster, rebuilding the local
// board and staff index.
func (h *ScheduleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	appts, roster, err := h.service.LoadDashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to load dashboard", zap.Error(err))
		response.InternalError(w, "failed to load schedule")
		return
	}
	response.OK(w, dashboardResponse{Appointments: appts, Staff: roster})
}

type createAppointmentRequest struct {
	ClientName string `json:"client_name"`
	StaffID    string `json:"staff_id"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	errs := validator.ValidateAppointmentInput(req.StaffID, req.Date, req.TimeSlot)
	if !validator.ValidateClientName(req.ClientName) {
		errs.Add("client_name", "must be between 2 and 100 characters")
	}
	if errs.HasErrors() {
		response.BadRequest(w, errs.Error())
		return
	}

	appt, err := h.service.Create(r.Context(), domain.CreateAppointmentParams{
		ClientName: validator.SanitizeString(req.ClientName, 100),
		StaffID:    req.StaffID,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
	})
	if err != nil {
		h.logger.Error("failed to create appointment", zap.Error(err))
		response.InternalError(w, "failed to create appointment")
		return
	}

	response.Created(w, appt)
}

type moveAppointmentRequest struct {
	StaffID  string `json:"staff_id"`
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// Reschedule updates an appointment's slot or owner from the edit form.
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.Reschedule)
}

// Move handles a drag/drop reassignment from the schedule grid.
func (h *ScheduleHandler) Move(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.Move)
}

func (h *ScheduleHandler) update(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string, params domain.UpdateAppointmentParams) (*domain.Appointment, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "missing appointment id")
		return
	}

	var req moveAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	errs := validator.ValidateAppointmentInput(req.StaffID, req.Date, req.TimeSlot)
	if errs.HasErrors() {
		response.BadRequest(w, errs.Error())
		return
	}

	appt, err := op(r.Context(), id, domain.UpdateAppointmentParams{
		StaffID:  req.StaffID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			response.NotFound(w, "appointment not found")
			return
		}
		h.logger.Error("failed to update appointment", zap.String("appointment_id", id), zap.Error(err))
		response.InternalError(w, "failed to update appointment")
		return
	}

	response.OK(w, appt)
}

// Cancel marks an appointment cancelled.
func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "missing appointment id")
		return
	}

	appt, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			response.NotFound(w, "appointment not found")
			return
		}
		h.logger.Error("failed to cancel appointment", zap.String("appointment_id", id), zap.Error(err))
		response.InternalError(w, "failed to cancel appointment")
		return
	}

	response.OK(w, appt)
}
