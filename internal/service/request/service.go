// Package request owns the blood-request lifecycle. Creation publishes to
// the change feed; the watcher takes it from there.
package request

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bloodlink/internal/domain"
	"bloodlink/internal/feed"
	"bloodlink/internal/repository"
)

var (
	ErrRequestNotFound = errors.New("blood request not found")
	ErrNotRequester    = errors.New("only the requester can change this request")
	ErrRequestClosed   = errors.New("request is already completed or cancelled")
)

type Service interface {
	Create(ctx context.Context, requesterID uuid.UUID, input domain.CreateBloodRequestInput) (*domain.BloodRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.BloodRequest], error)
	Cancel(ctx context.Context, requesterID, id uuid.UUID) error
	Complete(ctx context.Context, requesterID, id uuid.UUID) error
}

type service struct {
	requestRepo repository.BloodRequestRepository
	fd          feed.Feed
	logger      *zap.Logger
}

func NewService(requestRepo repository.BloodRequestRepository, fd feed.Feed, logger *zap.Logger) Service {
	return &service{requestRepo: requestRepo, fd: fd, logger: logger}
}

func (s *service) Create(ctx context.Context, requesterID uuid.UUID, input domain.CreateBloodRequestInput) (*domain.BloodRequest, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	req := &domain.BloodRequest{
		ID:           uuid.New(),
		RequesterID:  requesterID,
		PatientName:  input.PatientName,
		BloodType:    domain.BloodType(input.BloodType),
		Units:        input.Units,
		Hospital:     input.Hospital,
		Location:     input.Location,
		RequiredDate: input.RequiredDate,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		UrgencyLevel: domain.UrgencyLevel(input.UrgencyLevel),
		Status:       domain.RequestPending,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	// Publish is best-effort: a lost event only delays matching until the
	// watcher's next reconciliation pass.
	if s.fd != nil {
		if err := s.fd.PublishRequestCreated(ctx, req); err != nil {
			s.logger.Warn("failed to publish request created event",
				zap.String("request_id", req.ID.String()),
				zap.Error(err))
		}
	}

	return req, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *service) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error) {
	return s.requestRepo.ListByRequester(ctx, requesterID)
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.BloodRequest], error) {
	requests, total, err := s.requestRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.BloodRequest]{}, err
	}
	return domain.NewPaginatedResponse(requests, params.Page, params.PageSize, total), nil
}

func (s *service) Cancel(ctx context.Context, requesterID, id uuid.UUID) error {
	return s.transition(ctx, requesterID, id, domain.RequestCancelled)
}

func (s *service) Complete(ctx context.Context, requesterID, id uuid.UUID) error {
	return s.transition(ctx, requesterID, id, domain.RequestCompleted)
}

func (s *service) transition(ctx context.Context, requesterID, id uuid.UUID, status domain.RequestStatus) error {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.RequesterID != requesterID {
		return ErrNotRequester
	}
	if !req.Status.IsOpen() {
		return ErrRequestClosed
	}
	return s.requestRepo.UpdateStatus(ctx, id, status)
}
