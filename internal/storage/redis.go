package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each blob in a plain Redis string key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses url, connects and verifies connectivity.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client), nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// PutAll writes every blob inside a MULTI/EXEC block. A guard key is
// WATCHed, so the block is discarded when another client changes it between
// the check and EXEC.
func (s *RedisStore) PutAll(ctx context.Context, blobs map[string][]byte, guard *Guard) error {
	if guard == nil {
		if _, err := s.client.TxPipelined(ctx, setAll(ctx, blobs, nil)); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		return nil
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, guard.Key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if guard.Old != nil {
				return ErrConflict
			}
		case err != nil:
			return fmt.Errorf("redis get %s: %w", guard.Key, err)
		case guard.Old == nil || !bytes.Equal(cur, guard.Old):
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, setAll(ctx, blobs, guard))
		return err
	}, guard.Key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("redis set: %w", err)
	}
	return err
}

func setAll(ctx context.Context, blobs map[string][]byte, guard *Guard) func(redis.Pipeliner) error {
	return func(pipe redis.Pipeliner) error {
		if guard != nil {
			pipe.Set(ctx, guard.Key, guard.New, 0)
		}
		for _, key := range sortedKeys(blobs) {
			pipe.Set(ctx, key, blobs[key], 0)
		}
		return nil
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
