package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSubscriptionGone marks a delivery failure where the push endpoint
// reported the subscription permanently unreachable (HTTP 404/410).
var ErrSubscriptionGone = errors.New("push subscription gone")

// Subscription is one registered device for a recipient. A recipient
// may hold many subscriptions (one per device/browser).
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSubscriptionParams struct {
	UserID   string
	Endpoint string
	P256dh   string
	Auth     string
}

// SubscriptionRepository is the subscription store. DeleteSubscription
// must be idempotent: deleting an already-deleted row is a no-op.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error)
	GetSubscriptionsByUser(ctx context.Context, userID string) ([]*Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}
