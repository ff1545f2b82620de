package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bloodlink/internal/config"
	"bloodlink/internal/feed"
	"bloodlink/internal/repository"
	"bloodlink/internal/service/auth"
	"bloodlink/internal/service/dashboard"
	"bloodlink/internal/service/donor"
	"bloodlink/internal/service/matching"
	"bloodlink/internal/service/notification"
	"bloodlink/internal/service/request"
)

type Services struct {
	Auth         auth.Service
	Donor        donor.Service
	Request      request.Service
	Notification notification.Service
	Matching     matching.Service
	Dashboard    dashboard.Service
	Watcher      *matching.Watcher
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, fd feed.Feed, cfg *config.Config, logger *zap.Logger) *Services {
	authService := auth.NewService(repos.User, repos.Session, cfg)
	donorService := donor.NewService(repos.Donor)
	requestService := request.NewService(repos.BloodRequest, fd, logger)
	notificationService := notification.NewService(repos.Notification)

	resolver := matching.NewResolver(repos.Donor, logger)
	dispatcher := matching.NewDispatcher(repos.Notification, fd, logger)
	matchingService := matching.NewService(resolver, dispatcher, repos.BloodRequest)
	watcher := matching.NewWatcher(resolver, dispatcher, repos.BloodRequest, fd, cfg.ReconcileInterval, logger)

	dashboardService := dashboard.NewService(repos.Donor, repos.BloodRequest, redisClient, cfg.DashboardCacheTTL)

	return &Services{
		Auth:         authService,
		Donor:        donorService,
		Request:      requestService,
		Notification: notificationService,
		Matching:     matchingService,
		Dashboard:    dashboardService,
		Watcher:      watcher,
	}
}
