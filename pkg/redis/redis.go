package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

var statsPeriods = []string{"week", "month", "year"}

type IRedis interface {
	GetStats(ctx context.Context, userID, period string) (string, error)
	SetStats(ctx context.Context, userID, period string, payload string, expiration time.Duration) error
	InvalidateStats(ctx context.Context, userID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func statsKey(userID, period string) string {
	return fmt.Sprintf("stats:%s:%s", userID, period)
}

func (r *redisClient) GetStats(ctx context.Context, userID, period string) (string, error) {
	payload, err := r.client.Get(ctx, statsKey(userID, period)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		logrus.Error(fmt.Sprintf("Error reading stats cache for user %s: %v", userID, err))
		return "", err
	}
	return payload, nil
}

func (r *redisClient) SetStats(ctx context.Context, userID, period string, payload string, expiration time.Duration) error {
	if err := r.client.Set(ctx, statsKey(userID, period), payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error writing stats cache for user %s: %v", userID, err))
		return err
	}
	return nil
}

// InvalidateStats drops every cached period for the user. Called after any
// ledger mutation so stale buckets are never served.
func (r *redisClient) InvalidateStats(ctx context.Context, userID string) error {
	keys := make([]string, 0, len(statsPeriods))
	for _, period := range statsPeriods {
		keys = append(keys, statsKey(userID, period))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error invalidating stats cache for user %s: %v", userID, err))
		return err
	}
	return nil
}
