package domain

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/metrics"
)

// PushRequest is the fan-out endpoint's inbound contract.
type PushRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Tag    string `json:"notificationTag,omitempty"`
}

// pushPayload is the message encrypted into each Web Push delivery,
// mirroring what the device worker expects to parse.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag,omitempty"`
}

// DeliveryResult records the settled outcome of one delivery attempt.
type DeliveryResult struct {
	Status   string `json:"status"`
	Endpoint string `json:"endpoint,omitempty"`
	Error    string `json:"error,omitempty"`
}

const (
	DeliveryFulfilled = "fulfilled"
	DeliveryRejected  = "rejected"
)

// FanOutResult aggregates all settle results for one recipient.
// NoSubscriptions distinguishes "nothing to deliver" from "delivery
// failed"; it is the expected case for staff without a linked account.
type FanOutResult struct {
	NoSubscriptions bool
	Results         []DeliveryResult
}

// PushSender delivers one payload to one device subscription. It
// returns an error wrapping ErrSubscriptionGone when the endpoint
// reports the subscription permanently unreachable.
type PushSender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) error
}

// PushService fans one logical notification out to every device a
// recipient has registered.
type PushService struct {
	subscriptions SubscriptionRepository
	sender        PushSender
	logger        *zap.Logger
}

func NewPushService(subscriptions SubscriptionRepository, sender PushSender, logger *zap.Logger) *PushService {
	return &PushService{
		subscriptions: subscriptions,
		sender:        sender,
		logger:        logger,
	}
}

// FanOut loads all subscriptions for the recipient and attempts every
// delivery concurrently. Attempts settle independently: one device
// failing never aborts delivery to the others. Endpoints that report
// gone are pruned from the store before their failure is recorded.
func (s *PushService) FanOut(ctx context.Context, req PushRequest) (*FanOutResult, error) {
	subs, err := s.subscriptions.GetSubscriptionsByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		s.logger.Debug("no subscriptions for recipient", zap.String("user_id", req.UserID))
		return &FanOutResult{NoSubscriptions: true}, nil
	}

	payload, err := json.Marshal(pushPayload{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
		Tag:   req.Tag,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]DeliveryResult, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub Subscription) {
			defer wg.Done()
			results[i] = s.deliver(ctx, sub, payload)
		}(i, *sub)
	}
	wg.Wait()
	metrics.FanOutDuration.Observe(time.Since(start).Seconds())

	return &FanOutResult{Results: results}, nil
}

func (s *PushService) deliver(ctx context.Context, sub Subscription, payload []byte) DeliveryResult {
	err := s.sender.Send(ctx, sub, payload)
	if err == nil {
		metrics.PushDeliveries.WithLabelValues(DeliveryFulfilled).Inc()
		return DeliveryResult{Status: DeliveryFulfilled, Endpoint: sub.Endpoint}
	}

	if errors.Is(err, ErrSubscriptionGone) {
		// Expected churn: the device unsubscribed or the browser
		// rotated the endpoint. Clean up before recording the failure.
		if derr := s.subscriptions.DeleteSubscription(ctx, sub.ID); derr != nil {
			s.logger.Error("failed to prune dead subscription",
				zap.String("subscription_id", sub.ID),
				zap.Error(derr),
			)
		} else {
			metrics.SubscriptionsPruned.Inc()
			s.logger.Info("pruned dead subscription",
				zap.String("subscription_id", sub.ID),
				zap.String("user_id", sub.UserID),
			)
		}
	} else {
		s.logger.Warn("push delivery failed",
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
	}

	metrics.PushDeliveries.WithLabelValues(DeliveryRejected).Inc()
	return DeliveryResult{Status: DeliveryRejected, Endpoint: sub.Endpoint, Error: err.Error()}
}
