package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bloodlink/internal/domain"
	"bloodlink/internal/feed"
	"bloodlink/internal/repository"
)

// Dispatcher turns a request and a resolved donor set into persisted
// notifications, one per donor, exactly once per (request, donor) pair.
type Dispatcher interface {
	// Dispatch returns the number of notifications actually created.
	// Re-dispatching a request is safe: existing pairs are suppressed by the
	// store, not counted, and not treated as failures.
	Dispatch(ctx context.Context, req *domain.BloodRequest, donors []domain.Donor) (int, error)
}

type dispatcher struct {
	notifRepo repository.NotificationRepository
	fd        feed.Feed
	logger    *zap.Logger
}

// NewDispatcher wires the dispatcher. fd may be nil; live notification
// events are then skipped and consumers rely on polling.
func NewDispatcher(notifRepo repository.NotificationRepository, fd feed.Feed, logger *zap.Logger) Dispatcher {
	return &dispatcher{notifRepo: notifRepo, fd: fd, logger: logger}
}

func (d *dispatcher) Dispatch(ctx context.Context, req *domain.BloodRequest, donors []domain.Donor) (int, error) {
	title := "Blood Request Match"
	if req.UrgencyLevel.IsUrgent() {
		title = "URGENT: " + title
	}
	message := fmt.Sprintf("Your blood type matches a request for %s at %s.", req.BloodType, req.Hospital)

	metadata, err := json.Marshal(domain.RequestMatchMetadata{
		RequestID:   req.ID,
		BloodType:   req.BloodType,
		Hospital:    req.Hospital,
		Urgent:      req.UrgencyLevel.IsUrgent(),
		PatientName: req.PatientName,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal match metadata: %w", err)
	}

	created := 0
	for _, donor := range donors {
		requestID := req.ID
		notif := &domain.Notification{
			ID:        uuid.New(),
			UserID:    donor.UserID,
			RequestID: &requestID,
			Type:      domain.NotifRequestMatch,
			Title:     title,
			Message:   message,
			Metadata:  metadata,
		}

		inserted, err := d.notifRepo.InsertIfAbsent(ctx, notif)
		if err != nil {
			// Best-effort fan-out: one donor's failure must not starve the
			// rest. The reconciliation pass retries this pair.
			d.logger.Error("failed to create match notification",
				zap.String("request_id", req.ID.String()),
				zap.String("donor_user_id", donor.UserID.String()),
				zap.Error(err))
			continue
		}
		if !inserted {
			// Already notified for this pair. Expected under overlap of the
			// live and reconciliation paths.
			continue
		}

		created++

		if d.fd != nil {
			if err := d.fd.PublishNotificationCreated(ctx, notif); err != nil {
				d.logger.Warn("failed to publish notification event",
					zap.String("notification_id", notif.ID.String()),
					zap.Error(err))
			}
		}
	}

	return created, nil
}
