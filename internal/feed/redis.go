package feed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bloodlink/internal/domain"
)

const (
	requestsChannel      = "bloodlink:requests:new"
	notificationsChannel = "bloodlink:notifications:new"
)

var ErrNoRedis = errors.New("feed: redis client not configured")

// RedisFeed publishes and consumes creation events over Redis pub/sub.
type RedisFeed struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisFeed(client *redis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

func (f *RedisFeed) PublishRequestCreated(ctx context.Context, req *domain.BloodRequest) error {
	if f.client == nil {
		return ErrNoRedis
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, requestsChannel, payload).Err()
}

func (f *RedisFeed) PublishNotificationCreated(ctx context.Context, notif *domain.Notification) error {
	if f.client == nil {
		return ErrNoRedis
	}
	payload, err := json.Marshal(notif)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, notificationsChannel, payload).Err()
}

func (f *RedisFeed) SubscribeRequests(ctx context.Context, onCreate func(domain.BloodRequest)) (Subscription, error) {
	if f.client == nil {
		return nil, ErrNoRedis
	}

	pubsub := f.client.Subscribe(ctx, requestsChannel)

	// Force the SUBSCRIBE round-trip so a dead broker fails here, not on
	// first receive.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		lost:   make(chan struct{}),
	}

	go func() {
		defer close(sub.lost)
		for msg := range pubsub.Channel() {
			var req domain.BloodRequest
			if err := json.Unmarshal([]byte(msg.Payload), &req); err != nil {
				f.logger.Warn("dropping malformed request event",
					zap.String("channel", msg.Channel),
					zap.Error(err))
				continue
			}
			onCreate(req)
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	lost   chan struct{}
}

func (s *redisSubscription) Lost() <-chan struct{} {
	return s.lost
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
