package matching

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"bloodlink/internal/repository"
)

var ErrRequestNotFound = errors.New("blood request not found")

// Service is the application-facing entry point for on-demand matching
// (the admin "notify all eligible donors" action).
type Service interface {
	NotifyEligibleDonors(ctx context.Context, requestID uuid.UUID) (int, error)
}

type service struct {
	resolver    Resolver
	dispatcher  Dispatcher
	requestRepo repository.BloodRequestRepository
}

func NewService(resolver Resolver, dispatcher Dispatcher, requestRepo repository.BloodRequestRepository) Service {
	return &service{resolver: resolver, dispatcher: dispatcher, requestRepo: requestRepo}
}

func (s *service) NotifyEligibleDonors(ctx context.Context, requestID uuid.UUID) (int, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	if req == nil {
		return 0, ErrRequestNotFound
	}

	donors, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(donors) == 0 {
		return 0, nil
	}

	return s.dispatcher.Dispatch(ctx, req, donors)
}
