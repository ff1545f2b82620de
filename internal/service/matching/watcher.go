package matching

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"bloodlink/internal/domain"
	"bloodlink/internal/feed"
	"bloodlink/internal/repository"
)

var (
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNotStarted     = errors.New("watcher not started")
)

// Watcher ties the feed to the matching pipeline. Live creation events and
// the periodic reconciliation scan are serviced by one goroutine, so within
// a watcher the two paths never run concurrently; overlap with other
// processes is absorbed by the store's uniqueness constraint.
type Watcher struct {
	resolver    Resolver
	dispatcher  Dispatcher
	requestRepo repository.BloodRequestRepository
	fd          feed.Feed
	interval    time.Duration
	logger      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(
	resolver Resolver,
	dispatcher Dispatcher,
	requestRepo repository.BloodRequestRepository,
	fd feed.Feed,
	interval time.Duration,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		resolver:    resolver,
		dispatcher:  dispatcher,
		requestRepo: requestRepo,
		fd:          fd,
		interval:    interval,
		logger:      logger,
	}
}

// Start subscribes to the request feed and launches the delivery loop with
// an immediate reconciliation pass. A subscription failure is returned to
// the caller for retry; nothing is left running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)

	events := make(chan domain.BloodRequest, 64)
	sub, err := w.fd.SubscribeRequests(runCtx, func(req domain.BloodRequest) {
		select {
		case events <- req:
		default:
			// Queue full; the reconciliation pass will pick this request up.
			w.logger.Warn("event queue full, deferring to reconciliation",
				zap.String("request_id", req.ID.String()))
		}
	})
	if err != nil {
		cancel()
		return err
	}

	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(runCtx, sub, events)

	return nil
}

// Stop releases the subscription, cancels the reconciliation timer, and
// waits for the loop to drain. Safe to call once after a successful Start.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return ErrNotStarted
	}

	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
	return nil
}

func (w *Watcher) run(ctx context.Context, sub feed.Subscription, events <-chan domain.BloodRequest) {
	defer close(w.done)
	defer func() {
		if err := sub.Close(); err != nil {
			w.logger.Warn("failed to close feed subscription", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Startup backstop: repair anything created before we subscribed.
	if err := w.Reconcile(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("initial reconciliation failed", zap.Error(err))
	}

	lost := sub.Lost()

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-events:
			w.handleEvent(ctx, req)

		case <-lost:
			// Live path is gone; reconciliation keeps correctness until the
			// owner restarts the watcher.
			w.logger.Warn("request feed subscription lost, relying on reconciliation")
			lost = nil

		case <-ticker.C:
			if err := w.Reconcile(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("reconciliation failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, req domain.BloodRequest) {
	if !req.BloodType.IsValid() {
		w.logger.Warn("skipping event with malformed blood type",
			zap.String("request_id", req.ID.String()),
			zap.String("blood_type", string(req.BloodType)))
		return
	}
	if req.Status != "" && !req.Status.IsOpen() {
		return
	}

	if err := w.process(ctx, &req); err != nil {
		// Contained: the request stays open and the next reconciliation
		// pass retries it.
		w.logger.Error("failed to process request event",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}

// Reconcile re-runs resolve+dispatch over every open request. Overlap with
// live delivery is harmless because dispatch is idempotent. Exposed so the
// owner can trigger a manual pass.
func (w *Watcher) Reconcile(ctx context.Context) error {
	requests, err := w.requestRepo.ListPendingOrActive(ctx)
	if err != nil {
		return err
	}

	for i := range requests {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		req := &requests[i]
		if !req.BloodType.IsValid() {
			w.logger.Warn("skipping request with malformed blood type",
				zap.String("request_id", req.ID.String()))
			continue
		}
		if err := w.process(ctx, req); err != nil {
			w.logger.Error("reconciliation skipped request",
				zap.String("request_id", req.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, req *domain.BloodRequest) error {
	donors, err := w.resolver.Resolve(ctx, req)
	if err != nil {
		return err
	}
	if len(donors) == 0 {
		return nil
	}

	created, err := w.dispatcher.Dispatch(ctx, req, donors)
	if err != nil {
		return err
	}
	if created > 0 {
		w.logger.Info("notified eligible donors",
			zap.String("request_id", req.ID.String()),
			zap.Int("notified", created))
	}
	return nil
}
