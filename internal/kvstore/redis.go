package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "value"
	redisVersionField = "version"
)

// RedisStore keeps each key as a hash holding the value and its version.
// Set runs under WATCH so a concurrent writer aborts the transaction.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedis parses a redis:// URL, connects and pings the server.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStore(rdb, prefix), nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	vals, err := s.rdb.HMGet(ctx, s.key(key), redisValueField, redisVersionField).Result()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil {
		return nil, "", nil
	}

	value, _ := vals[0].(string)
	version, _ := vals[1].(string)
	return []byte(value), version, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, expectedVersion string) (string, error) {
	k := s.key(key)
	var next string

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, k, redisVersionField).Result()
		if errors.Is(err, redis.Nil) {
			current = ""
		} else if err != nil {
			return err
		}

		if current != expectedVersion {
			return common.ErrVersionConflict
		}

		next = nextVersion(current)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, redisValueField, value, redisVersionField, next)
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, common.ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return "", common.ErrVersionConflict
	default:
		return "", fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
}

func nextVersion(current string) string {
	n, err := strconv.ParseInt(current, 10, 64)
	if current == "" || err != nil {
		return strconv.FormatInt(nowVersion(), 10)
	}
	return strconv.FormatInt(n+1, 10)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
