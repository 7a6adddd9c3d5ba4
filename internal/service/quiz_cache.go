package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// CacheInvalidator drops every cached render of a quiz.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// QuizCache stores assembled quiz payloads in one Redis hash per quiz, keyed
// by version label and seed.
type QuizCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQuizCache(rdb *redis.Client, ttl time.Duration) *QuizCache {
	return &QuizCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached payload, or ok=false on a miss.
func (c *QuizCache) Get(ctx context.Context, quizID uuid.UUID, versionLabel, seed string) ([]byte, bool, error) {
	data, err := c.rdb.HGet(ctx,
		config.CacheKey.AssembledQuizKey(quizID.String()),
		config.CacheKey.AssembledQuizField(versionLabel, seed),
	).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a payload and refreshes the hash expiry in one round trip.
func (c *QuizCache) Set(ctx context.Context, quizID uuid.UUID, versionLabel, seed string, payload []byte) error {
	key := config.CacheKey.AssembledQuizKey(quizID.String())
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, config.CacheKey.AssembledQuizField(versionLabel, seed), payload)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *QuizCache) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	return c.rdb.Del(ctx, config.CacheKey.AssembledQuizKey(quizID.String())).Err()
}
