package request_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bloodlink/internal/domain"
	"bloodlink/internal/feed"
)

type BloodRequestRepositoryMock struct {
	mock.Mock
}

func (m *BloodRequestRepositoryMock) Create(ctx context.Context, req *domain.BloodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *BloodRequestRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

func (m *BloodRequestRepositoryMock) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *BloodRequestRepositoryMock) List(ctx context.Context, params domain.PaginationParams) ([]domain.BloodRequest, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.BloodRequest), args.Get(1).(int64), args.Error(2)
}

func (m *BloodRequestRepositoryMock) ListPendingOrActive(ctx context.Context) ([]domain.BloodRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *BloodRequestRepositoryMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *BloodRequestRepositoryMock) CountOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BloodRequestRepositoryMock) CountOpenUrgent(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// FeedMock records published events.
type FeedMock struct {
	mock.Mock
}

var _ feed.Feed = (*FeedMock)(nil)

func (m *FeedMock) PublishRequestCreated(ctx context.Context, req *domain.BloodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *FeedMock) PublishNotificationCreated(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *FeedMock) SubscribeRequests(ctx context.Context, onCreate func(domain.BloodRequest)) (feed.Subscription, error) {
	args := m.Called(ctx, onCreate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(feed.Subscription), args.Error(1)
}
