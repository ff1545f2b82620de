package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bloodlink/internal/repository"
)

type Stats struct {
	TotalDonors     int64            `json:"total_donors"`
	AvailableDonors int64            `json:"available_donors"`
	DonorsByType    map[string]int64 `json:"donors_by_type"`
	OpenRequests    int64            `json:"open_requests"`
	UrgentRequests  int64            `json:"urgent_requests"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	donorRepo   repository.DonorRepository
	requestRepo repository.BloodRequestRepository
	redis       *redis.Client
	cacheTTL    time.Duration
}

func NewService(donorRepo repository.DonorRepository, requestRepo repository.BloodRequestRepository, redis *redis.Client, cacheTTL time.Duration) Service {
	return &service{
		donorRepo:   donorRepo,
		requestRepo: requestRepo,
		redis:       redis,
		cacheTTL:    cacheTTL,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	cacheKey := "dashboard:stats"

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	totalDonors, err := s.donorRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	availableDonors, err := s.donorRepo.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}

	byType, err := s.donorRepo.CountByBloodType(ctx)
	if err != nil {
		return nil, err
	}
	donorsByType := make(map[string]int64, len(byType))
	for bt, count := range byType {
		donorsByType[string(bt)] = count
	}

	openRequests, err := s.requestRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	urgentRequests, err := s.requestRepo.CountOpenUrgent(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDonors:     totalDonors,
		AvailableDonors: availableDonors,
		DonorsByType:    donorsByType,
		OpenRequests:    openRequests,
		UrgentRequests:  urgentRequests,
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, payload, s.cacheTTL).Err()
		}
	}

	return stats, nil
}
