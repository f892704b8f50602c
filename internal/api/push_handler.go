package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/domain"
	"github.com/reelinbookings/backend/internal/middleware"
	"github.com/reelinbookings/backend/pkg/response"
)

// PushHandler exposes the notification fan-out endpoint and device
// subscription registration.
type PushHandler struct {
	service       *domain.PushService
	subscriptions domain.SubscriptionRepository
	logger        *zap.Logger
}

func NewPushHandler(service *domain.PushService, subscriptions domain.SubscriptionRepository, logger *zap.Logger) *PushHandler {
	return &PushHandler{
		service:       service,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// Notify fans one notification out to all of a recipient's devices.
// The response is the raw wire contract, not the standard envelope:
// callers of this endpoint are dispatch clients, and having zero
// subscriptions is reported as a 200 with an explicit marker, never as
// an error.
func (h *PushHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req domain.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" {
		response.BadRequest(w, "userId is required")
		return
	}
	if req.URL == "" {
		req.URL = domain.SchedulePath
	}

	result, err := h.service.FanOut(r.Context(), req)
	if err != nil {
		h.logger.Error("fan-out failed", zap.String("user_id", req.UserID), zap.Error(err))
		response.InternalError(w, "failed to send notifications")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if result.NoSubscriptions {
		json.NewEncoder(w).Encode(map[string]string{"message": "No subscriptions found"})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"results": result.Results})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe registers the calling user's device for push.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		response.BadRequest(w, "endpoint and keys are required")
		return
	}

	sub, err := h.subscriptions.CreateSubscription(r.Context(), domain.CreateSubscriptionParams{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		h.logger.Error("failed to register subscription", zap.String("user_id", userID), zap.Error(err))
		response.InternalError(w, "failed to register subscription")
		return
	}

	response.Created(w, sub)
}
