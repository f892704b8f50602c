package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/domain"
)

type memorySubscriptions struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription
	next int
}

func newMemorySubscriptions() *memorySubscriptions {
	return &memorySubscriptions{subs: make(map[string]*domain.Subscription)}
}

func (m *memorySubscriptions) CreateSubscription(ctx context.Context, params domain.CreateSubscriptionParams) (*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	sub := &domain.Subscription{
		ID:       fmt.Sprintf("sub-%d", m.next),
		UserID:   params.UserID,
		Endpoint: params.Endpoint,
		P256dh:   params.P256dh,
		Auth:     params.Auth,
	}
	m.subs[sub.ID] = sub
	return sub, nil
}

func (m *memorySubscriptions) GetSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Subscription
	for _, sub := range m.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *memorySubscriptions) DeleteSubscription(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
	return nil
}

type sendFunc func(ctx context.Context, sub domain.Subscription, payload []byte) error

func (f sendFunc) Send(ctx context.Context, sub domain.Subscription, payload []byte) error {
	return f(ctx, sub, payload)
}

func postNotify(t *testing.T, handler *PushHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notify", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.Notify(rec, req)
	return rec
}

func TestPushHandler_Notify_NoSubscriptions(t *testing.T) {
	subs := newMemorySubscriptions()
	ok := sendFunc(func(ctx context.Context, sub domain.Subscription, payload []byte) error { return nil })
	handler := NewPushHandler(domain.NewPushService(subs, ok, zap.NewNop()), subs, zap.NewNop())

	rec := postNotify(t, handler, domain.PushRequest{UserID: "s-unlinked", Title: "New Booking"})

	require.Equal(t, http.StatusOK, rec.Code, "zero subscriptions is a 200, not an error")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No subscriptions found", resp["message"])
}

func TestPushHandler_Notify_Results(t *testing.T) {
	subs := newMemorySubscriptions()
	for i := 0; i < 2; i++ {
		_, err := subs.CreateSubscription(context.Background(), domain.CreateSubscriptionParams{
			UserID: "u-1", Endpoint: fmt.Sprintf("https://push/%d", i), P256dh: "k", Auth: "a",
		})
		require.NoError(t, err)
	}

	ok := sendFunc(func(ctx context.Context, sub domain.Subscription, payload []byte) error { return nil })
	handler := NewPushHandler(domain.NewPushService(subs, ok, zap.NewNop()), subs, zap.NewNop())

	rec := postNotify(t, handler, domain.PushRequest{
		UserID: "u-1", Title: "Schedule Updated", Body: "b", URL: "/staff?tab=schedule",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []domain.DeliveryResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	for _, res := range resp.Results {
		assert.Equal(t, domain.DeliveryFulfilled, res.Status)
	}
}

func TestPushHandler_Notify_BadRequest(t *testing.T) {
	subs := newMemorySubscriptions()
	ok := sendFunc(func(ctx context.Context, sub domain.Subscription, payload []byte) error { return nil })
	handler := NewPushHandler(domain.NewPushService(subs, ok, zap.NewNop()), subs, zap.NewNop())

	rec := postNotify(t, handler, map[string]string{"title": "no recipient"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
