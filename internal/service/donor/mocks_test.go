package donor_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bloodlink/internal/domain"
)

type DonorRepositoryMock struct {
	mock.Mock
}

func (m *DonorRepositoryMock) Create(ctx context.Context, donor *domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *DonorRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Donor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *DonorRepositoryMock) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Donor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *DonorRepositoryMock) ListAvailable(ctx context.Context) ([]domain.Donor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *DonorRepositoryMock) List(ctx context.Context, params domain.PaginationParams) ([]domain.Donor, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Donor), args.Get(1).(int64), args.Error(2)
}

func (m *DonorRepositoryMock) ListByBloodType(ctx context.Context, bt domain.BloodType) ([]domain.Donor, error) {
	args := m.Called(ctx, bt)
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *DonorRepositoryMock) Update(ctx context.Context, donor *domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *DonorRepositoryMock) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DonorRepositoryMock) CountAvailable(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DonorRepositoryMock) CountByBloodType(ctx context.Context) (map[domain.BloodType]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.BloodType]int64), args.Error(1)
}
