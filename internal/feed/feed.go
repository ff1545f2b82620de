// Package feed carries creation events between the write path and the
// request watcher. The watcher treats it as best-effort: a dropped event is
// repaired by the next reconciliation pass.
package feed

import (
	"context"

	"bloodlink/internal/domain"
)

// Subscription is a live handle on a feed channel. Close releases it; after
// Close no further callbacks are delivered.
type Subscription interface {
	// Lost is closed when the underlying connection drops for good. The
	// owner may surface degraded state but should keep reconciling.
	Lost() <-chan struct{}
	Close() error
}

// Feed is the change-feed capability.
type Feed interface {
	PublishRequestCreated(ctx context.Context, req *domain.BloodRequest) error
	PublishNotificationCreated(ctx context.Context, notif *domain.Notification) error

	// SubscribeRequests invokes onCreate for every request-created event
	// until the subscription is closed. Malformed payloads are dropped.
	SubscribeRequests(ctx context.Context, onCreate func(domain.BloodRequest)) (Subscription, error)
}
