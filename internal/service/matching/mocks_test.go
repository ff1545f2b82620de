package matching_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bloodlink/internal/domain"
	"bloodlink/internal/feed"
	"bloodlink/internal/repository"
)

// DonorRepositoryMock is a testify mock over the donor directory.
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// memNotificationStore enforces the same (request_id, user_id) uniqueness a
// Postgres partial unique index does, under a mutex, so concurrent dispatch
// tests exercise the real dedupe contract.
type memNotificationStore struct {
	mu      sync.Mutex
	rows    []domain.Notification
	pairs   map[string]bool
	failFor map[uuid.UUID]error // user_id -> injected insert error
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{
		pairs:   make(map[string]bool),
		failFor: make(map[uuid.UUID]error),
	}
}

var _ repository.NotificationRepository = (*memNotificationStore)(nil)

func pairKey(requestID *uuid.UUID, userID uuid.UUID) string {
	if requestID == nil {
		return uuid.New().String()
	}
	return requestID.String() + "|" + userID.String()
}

func (s *memNotificationStore) InsertIfAbsent(ctx context.Context, notif *domain.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failFor[notif.UserID]; ok {
		return false, err
	}

	key := pairKey(notif.RequestID, notif.UserID)
	if s.pairs[key] {
		return false, nil
	}
	s.pairs[key] = true

	notif.CreatedAt = time.Now()
	s.rows = append(s.rows, *notif)
	return true, nil
}

func (s *memNotificationStore) Create(ctx context.Context, notif *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notif.CreatedAt = time.Now()
	s.rows = append(s.rows, *notif)
	return nil
}

func (s *memNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			n := s.rows[i]
			return &n, nil
		}
	}
	return nil, nil
}

func (s *memNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.rows {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (s *memNotificationStore) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].IsRead = true
		}
	}
	return nil
}

func (s *memNotificationStore) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].UserID == userID {
			s.rows[i].IsRead = true
		}
	}
	return nil
}

func (s *memNotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memNotificationStore) countForUser(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.rows {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

// memRequestRepo holds open requests for reconciliation tests.
type memRequestRepo struct {
	mu       sync.Mutex
	requests []domain.BloodRequest
}

var _ repository.BloodRequestRepository = (*memRequestRepo)(nil)

func (r *memRequestRepo) add(req domain.BloodRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *memRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	r.add(*req)
	return nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		if r.requests[i].ID == id {
			req := r.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (r *memRequestRepo) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]domain.BloodRequest, error) {
	return nil, nil
}

func (r *memRequestRepo) List(ctx context.Context, params domain.PaginationParams) ([]domain.BloodRequest, int64, error) {
	return nil, 0, nil
}

func (r *memRequestRepo) ListPendingOrActive(ctx context.Context) ([]domain.BloodRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BloodRequest
	for _, req := range r.requests {
		if req.Status.IsOpen() {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = status
		}
	}
	return nil
}

func (r *memRequestRepo) CountOpen(ctx context.Context) (int64, error) {
	reqs, _ := r.ListPendingOrActive(ctx)
	return int64(len(reqs)), nil
}

func (r *memRequestRepo) CountOpenUrgent(ctx context.Context) (int64, error) {
	return 0, nil
}

// fakeFeed is an in-process Feed whose publish side drives its subscriber
// directly, like a loopback broker.
type fakeFeed struct {
	mu        sync.Mutex
	onCreate  func(domain.BloodRequest)
	lost      chan struct{}
	closed    bool
	published []domain.Notification
	subErr    error
}

var _ feed.Feed = (*fakeFeed)(nil)
var _ feed.Subscription = (*fakeFeed)(nil)

func newFakeFeed() *fakeFeed {
	return &fakeFeed{lost: make(chan struct{})}
}

func (f *fakeFeed) PublishRequestCreated(ctx context.Context, req *domain.BloodRequest) error {
	f.mu.Lock()
	onCreate := f.onCreate
	f.mu.Unlock()
	if onCreate != nil {
		onCreate(*req)
	}
	return nil
}

func (f *fakeFeed) PublishNotificationCreated(ctx context.Context, notif *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, *notif)
	return nil
}

func (f *fakeFeed) SubscribeRequests(ctx context.Context, onCreate func(domain.BloodRequest)) (feed.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.mu.Lock()
	f.onCreate = onCreate
	f.mu.Unlock()
	return f, nil
}

func (f *fakeFeed) Lost() <-chan struct{} {
	return f.lost
}

func (f *fakeFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		f.onCreate = nil
	}
	return nil
}

func (f *fakeFeed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
