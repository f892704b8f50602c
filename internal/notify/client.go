package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/domain"
	"github.com/reelinbookings/backend/internal/metrics"
)

// Client posts composed notifications to the fan-out endpoint. Every
// dispatch is best-effort: it runs on its own goroutine with no join
// point, and transport failures are logged and discarded so the
// triggering mutation is never delayed or failed by notification
// trouble.
type Client struct {
	endpoint   string
	resolver   *domain.RecipientResolver
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, resolver *domain.RecipientResolver, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		resolver:   resolver,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Dispatch sends one notification event and returns immediately. The
// caller's context is deliberately not carried into the send: the
// mutation that triggered the notification may finish (and its request
// context end) long before delivery does.
func (c *Client) Dispatch(ctx context.Context, event domain.NotificationEvent) {
	go c.send(event)
}

func (c *Client) send(event domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req := domain.PushRequest{
		UserID: c.resolver.Resolve(ctx, event.StaffID),
		Title:  event.Title,
		Body:   event.Body,
		URL:    domain.DeepLink(event.AppointmentID),
		Type:   string(event.Category),
		Tag:    string(event.Category),
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("failed to encode notification request", zap.Error(err))
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to build notification request", zap.Error(err))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("notification dispatch failed",
			zap.String("staff_id", event.StaffID),
			zap.String("category", string(event.Category)),
			zap.Error(err),
		)
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		c.logger.Warn("notification dispatch rejected",
			zap.String("staff_id", event.StaffID),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	metrics.NotificationsDispatched.WithLabelValues(string(event.Category)).Inc()
	c.logger.Debug("notification dispatched",
		zap.String("staff_id", event.StaffID),
		zap.String("recipient_id", req.UserID),
		zap.String("category", string(event.Category)),
	)
}
