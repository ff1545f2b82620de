// Package donor owns the donor profile lifecycle: registration, availability
// and contact updates, and the post-donation bookkeeping.
package donor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
)

var (
	ErrAlreadyRegistered = errors.New("user already has a donor profile")
	ErrDonorNotFound     = errors.New("donor profile not found")
)

type Service interface {
	Register(ctx context.Context, userID uuid.UUID, input domain.RegisterDonorInput) (*domain.Donor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Donor, error)
	Update(ctx context.Context, userID uuid.UUID, input domain.UpdateDonorInput) (*domain.Donor, error)
	// RecordDonation stamps the donation date and marks the donor
	// unavailable until they opt back in.
	RecordDonation(ctx context.Context, userID uuid.UUID) (*domain.Donor, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Donor], error)
	ListByBloodType(ctx context.Context, bt domain.BloodType) ([]domain.Donor, error)
}

type service struct {
	donorRepo repository.DonorRepository
}

func NewService(donorRepo repository.DonorRepository) Service {
	return &service{donorRepo: donorRepo}
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, input domain.RegisterDonorInput) (*domain.Donor, error) {
	bt, ok := domain.ParseBloodType(input.BloodType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBloodType, input.BloodType)
	}

	existing, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	donor := &domain.Donor{
		ID:            uuid.New(),
		UserID:        userID,
		BloodType:     bt,
		IsAvailable:   true,
		ContactNumber: input.ContactNumber,
		Location:      input.Location,
	}

	if err := s.donorRepo.Create(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Donor, error) {
	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}
	return donor, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input domain.UpdateDonorInput) (*domain.Donor, error) {
	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}

	if input.IsAvailable != nil {
		donor.IsAvailable = *input.IsAvailable
	}
	if input.ContactNumber != nil {
		donor.ContactNumber = *input.ContactNumber
	}
	if input.Location != nil {
		donor.Location = *input.Location
	}

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

func (s *service) RecordDonation(ctx context.Context, userID uuid.UUID) (*domain.Donor, error) {
	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}

	now := time.Now()
	donor.LastDonationDate = &now
	donor.IsAvailable = false

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}
	return donor, nil
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Donor], error) {
	donors, total, err := s.donorRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Donor]{}, err
	}
	return domain.NewPaginatedResponse(donors, params.Page, params.PageSize, total), nil
}

func (s *service) ListByBloodType(ctx context.Context, bt domain.BloodType) ([]domain.Donor, error) {
	if !bt.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBloodType, string(bt))
	}
	return s.donorRepo.ListByBloodType(ctx, bt)
}
