package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
	now    func() time.Time
}

func NewRedisClient(ctx context.Context, cfg *config.RedisConnect) (*redis.Client, error) {

	slog.Info("Connecting to Redis", slog.String("host", cfg.Host), slog.String("port", cfg.Port))

	opt, err := redis.ParseURL(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.RateConfig) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg, now: time.Now}
}

// CheckLoginRateLimit records an attempt in a sliding window kept as a
// sorted set scored by unix time. It returns whether the attempt is allowed,
// the attempts left and the seconds to wait.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := "login_attempts:" + email
	window := int64(r.cfg.WindowSize.Seconds())
	at := r.now()
	now := at.Unix()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now-window, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: at.UnixNano()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	if attempts <= r.cfg.MaxAttempts {
		return true, int(r.cfg.MaxAttempts - attempts), 0, nil
	}

	oldest, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil {
		return false, 0, int(window), fmt.Errorf("failed to get oldest attempt time: %w", err)
	}
	if len(oldest) == 0 {
		return false, 0, int(window), nil
	}

	retryAfter := max(int64(oldest[0].Score)+window-now, 0)

	logger.Warn("Login rate limit exceeded", slog.Int64("attempts", attempts))
	return false, 0, int(retryAfter), nil
}
