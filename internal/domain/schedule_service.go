package domain

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher hands a composed notification to the delivery pipeline.
// Implementations are fire-and-forget: Dispatch returns immediately and
// its completion is never observed by the caller, so a slow or failing
// notification cannot delay or fail the booking action that caused it.
type Dispatcher interface {
	Dispatch(ctx context.Context, event NotificationEvent)
}

// ReloadBroadcaster tells connected dashboard views to re-fetch the
// authoritative schedule.
type ReloadBroadcaster interface {
	BroadcastReload()
}

// ScheduleService owns the appointment lifecycle: it performs the
// authoritative mutation, reconciles the local schedule board, and
// decides which notifications each transition owes. Mutation and
// reload always complete before dispatch is initiated.
type ScheduleService struct {
	appointments AppointmentRepository
	staff        StaffRepository
	board        *ScheduleBoard
	dispatcher   Dispatcher
	views        ReloadBroadcaster
	logger       *zap.Logger
}

func NewScheduleService(
	appointments AppointmentRepository,
	staff StaffRepository,
	dispatcher Dispatcher,
	views ReloadBroadcaster,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		appointments: appointments,
		staff:        staff,
		board:        NewScheduleBoard(),
		dispatcher:   dispatcher,
		views:        views,
		logger:       logger,
	}
}

// Board exposes the local schedule state for the dashboard handlers.
func (s *ScheduleService) Board() *ScheduleBoard {
	return s.board
}

// LoadDashboard fetches the authoritative schedule and roster and
// rebuilds the board, including the per-load staff index.
func (s *ScheduleService) LoadDashboard(ctx context.Context) ([]Appointment, []*Staff, error) {
	appts, err := s.appointments.ListAppointments(ctx)
	if err != nil {
		return nil, nil, err
	}
	roster, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.board.Load(appts, roster)
	return s.board.Appointments(), roster, nil
}

// Create books a new appointment and notifies the assigned staff.
func (s *ScheduleService) Create(ctx context.Context, params CreateAppointmentParams) (*Appointment, error) {
	appt, err := s.appointments.CreateAppointment(ctx, params)
	if err != nil {
		return nil, err
	}
	s.reload(ctx)
	s.notify(ctx, Compose(MutationCreate, *appt, "", s.board.Staff()))
	return appt, nil
}

// Reschedule updates an appointment's slot and, possibly, its owner.
// The new (or unchanged) staff gets the update; if ownership changed,
// the prior staff additionally gets a reassignment notice.
func (s *ScheduleService) Reschedule(ctx context.Context, id string, params UpdateAppointmentParams) (*Appointment, error) {
	oldStaffID := s.priorStaff(id)

	appt, err := s.appointments.UpdateAppointmentSchedule(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.reload(ctx)
	s.notify(ctx, Compose(MutationReschedule, *appt, oldStaffID, s.board.Staff()))
	return appt, nil
}

// Cancel marks an appointment cancelled and notifies whoever owns it
// at cancel time. The record is kept; cancellation is a soft state.
func (s *ScheduleService) Cancel(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.appointments.CancelAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reload(ctx)
	s.notify(ctx, Compose(MutationCancel, *appt, "", s.board.Staff()))
	return appt, nil
}

// Move handles a drag/drop reassignment. The board is updated
// optimistically before the backend mutation so the drop is visible
// immediately; the reload that follows supersedes the optimistic
// value. When the persist fails, the reload still runs to correct the
// already-diverged board, and the failure is returned to the caller.
func (s *ScheduleService) Move(ctx context.Context, id string, params UpdateAppointmentParams) (*Appointment, error) {
	oldStaffID := s.priorStaff(id)
	s.board.ApplyMove(id, params.Date, params.TimeSlot, params.StaffID)

	appt, err := s.appointments.UpdateAppointmentSchedule(ctx, id, params)
	if err != nil {
		s.reload(ctx)
		return nil, err
	}
	s.reload(ctx)
	s.notify(ctx, Compose(MutationMove, *appt, oldStaffID, s.board.Staff()))
	return appt, nil
}

// priorStaff reads the pre-mutation owner from the local board. A
// cache miss degrades to skipping the prior-staff notification; it is
// never surfaced to the user.
func (s *ScheduleService) priorStaff(id string) string {
	appt, ok := s.board.Get(id)
	if !ok {
		s.logger.Debug("appointment not on board, prior-staff notice will be skipped",
			zap.String("appointment_id", id))
		return ""
	}
	return appt.StaffID
}

func (s *ScheduleService) reload(ctx context.Context) {
	appts, err := s.appointments.ListAppointments(ctx)
	if err != nil {
		s.logger.Error("schedule reload failed", zap.Error(err))
		return
	}
	roster, err := s.staff.ListStaff(ctx)
	if err != nil {
		s.logger.Error("roster reload failed", zap.Error(err))
		return
	}
	s.board.Load(appts, roster)
	if s.views != nil {
		s.views.BroadcastReload()
	}
}

func (s *ScheduleService) notify(ctx context.Context, events []NotificationEvent) {
	if s.dispatcher == nil {
		return
	}
	for _, ev := range events {
		s.dispatcher.Dispatch(ctx, ev)
	}
}
