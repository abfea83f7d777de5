package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/config"
	"lg/nutrition-go-api/nutrition"
)

// resultCache stores the computed NutritionResult of a user's saved profile.
// Implementations never fail the request: errors are logged and treated as
// a miss.
type resultCache interface {
	Get(ctx context.Context, userID int) (nutrition.NutritionResult, bool)
	Set(ctx context.Context, userID int, res nutrition.NutritionResult)
	Invalidate(ctx context.Context, userID int)
}

func resultKey(userID int) string {
	return fmt.Sprintf("nutrition:result:%d", userID)
}

/* ─── Redis ──────────────────────────────────────────────────────────── */

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// newRedisClient builds a client from cfg. It does not connect.
func newRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// newResultCache returns a Redis-backed cache when enabled, otherwise a no-op
// one. An unreachable Redis at startup is logged, not fatal. The returned
// func closes the client.
func newResultCache(ctx context.Context, cfg config.RedisConfig) (resultCache, func() error) {
	if !cfg.Enabled {
		log.Info("result cache disabled")
		return noopCache{}, func() error { return nil }
	}
	client := newRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Address).Warn("redis ping failed; results will be recomputed until it is reachable")
	} else {
		log.WithField("addr", cfg.Address).Info("redis result cache ready")
	}
	return &redisCache{client: client, ttl: cfg.TTL}, client.Close
}

func (r *redisCache) Get(ctx context.Context, userID int) (nutrition.NutritionResult, bool) {
	var res nutrition.NutritionResult
	b, err := r.client.Get(ctx, resultKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return res, false
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("[cache] get failed")
		return res, false
	}
	if err := json.Unmarshal(b, &res); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("[cache] corrupt entry")
		return res, false
	}
	return res, true
}

func (r *redisCache) Set(ctx context.Context, userID int, res nutrition.NutritionResult) {
	b, err := json.Marshal(res)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("[cache] encode failed")
		return
	}
	if err := r.client.Set(ctx, resultKey(userID), b, r.ttl).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("[cache] set failed")
	}
}

func (r *redisCache) Invalidate(ctx context.Context, userID int) {
	if err := r.client.Del(ctx, resultKey(userID)).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("[cache] delete failed")
	}
}

/* ─── No-op ──────────────────────────────────────────────────────────── */

type noopCache struct{}

func (noopCache) Get(context.Context, int) (nutrition.NutritionResult, bool) {
	return nutrition.NutritionResult{}, false
}
func (noopCache) Set(context.Context, int, nutrition.NutritionResult) {}
func (noopCache) Invalidate(context.Context, int)                     {}
