// Package redis provides Redis-backed storage for small per-client state.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
)

// Store implements domain.KVStore on Redis. Every key is namespaced with a
// prefix so Clear only touches this store's data.
type Store struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

var _ domain.KVStore = (*Store)(nil)

// NewStore creates a Redis store under keyPrefix.
func NewStore(client *redis.Client, logger *zap.Logger, keyPrefix string) *Store {
	return &Store{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value by key. Returns nil if the key doesn't exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("store get failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	return data, nil
}

// Set stores a value. A zero ttl keeps the value until deleted.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, ttl).Err(); err != nil {
		s.logger.Error("store set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("store set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes a value by key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		s.logger.Error("store delete failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Clear removes every key under the prefix, using SCAN in batches.
func (s *Store) Clear(ctx context.Context) error {
	pattern := s.keyPrefix + ":*"
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	deleted := 0
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return err
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				s.logger.Error("store clear delete failed", zap.Error(err))
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Error("store clear scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return err
	}
	if err := flush(); err != nil {
		s.logger.Error("store clear delete failed", zap.Error(err))
		return err
	}

	s.logger.Info("store cleared",
		zap.String("prefix", s.keyPrefix),
		zap.Int("key_count", deleted),
	)

	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) buildKey(key string) string {
	return s.keyPrefix + ":" + key
}
