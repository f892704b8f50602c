package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/reelinbookings/backend/internal/domain"
)

type staffDirectory map[string]*domain.Staff

func (d staffDirectory) GetStaffByID(ctx context.Context, id string) (*domain.Staff, error) {
	st, ok := d[id]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	return st, nil
}

func (d staffDirectory) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	var out []*domain.Staff
	for _, st := range d {
		out = append(out, st)
	}
	return out, nil
}

func TestClient_Dispatch(t *testing.T) {
	received := make(chan domain.PushRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received <- req
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	}))
	defer srv.Close()

	resolver := domain.NewRecipientResolver(staffDirectory{
		"s-1": {ID: "s-1", Name: "Alice", UserID: "u-1"},
	})
	client := NewClient(srv.URL, resolver, zaptest.NewLogger(t))

	client.Dispatch(context.Background(), domain.NotificationEvent{
		StaffID:       "s-1",
		Title:         "Appointment Cancelled",
		Body:          "Jane's appointment on 2025-01-10 at 14:00 was cancelled.",
		AppointmentID: "apt-1",
		Category:      domain.CategoryCancellation,
	})

	select {
	case req := <-received:
		assert.Equal(t, "u-1", req.UserID, "staff id resolved to the linked recipient")
		assert.Equal(t, "Appointment Cancelled", req.Title)
		assert.Equal(t, "/staff?tab=schedule&appointmentId=apt-1", req.URL)
		assert.Equal(t, "cancellation", req.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never reached the fan-out endpoint")
	}
}

func TestClient_Dispatch_NoDeepLink(t *testing.T) {
	received := make(chan domain.PushRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received <- req
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resolver := domain.NewRecipientResolver(staffDirectory{})
	client := NewClient(srv.URL, resolver, zaptest.NewLogger(t))

	client.Dispatch(context.Background(), domain.NotificationEvent{
		StaffID:  "s-2",
		Title:    "Appointment Reassigned",
		Body:     "Jane's appointment was moved to Bob.",
		Category: domain.CategoryReassignment,
	})

	select {
	case req := <-received:
		assert.Equal(t, "s-2", req.UserID, "unlinked staff id passes through unchanged")
		assert.Equal(t, "/staff?tab=schedule", req.URL, "removed notice carries no appointment id")
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never reached the fan-out endpoint")
	}
}

func TestClient_Dispatch_TransportFailureIsSwallowed(t *testing.T) {
	// Endpoint that is guaranteed unreachable.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	resolver := domain.NewRecipientResolver(staffDirectory{})
	client := NewClient(srv.URL, resolver, zaptest.NewLogger(t))

	// Must not panic or surface an error to the caller.
	client.Dispatch(context.Background(), domain.NotificationEvent{
		StaffID:  "s-1",
		Title:    "New Booking",
		Category: domain.CategoryNewBooking,
	})

	time.Sleep(100 * time.Millisecond)
}
