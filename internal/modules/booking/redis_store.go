// README: Draft store backed by Redis string keys with a sliding TTL.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"toptransfer/internal/types"
)

const draftKeyPrefix = "toptransfer:draft:"

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	ok, err := s.redis.SetNX(ctx, draftKey(d.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id types.ID) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDraft(data)
}

// Update uses WATCH so two requests racing on the same draft cannot both win.
func (s *RedisStore) Update(ctx context.Context, d *Draft) error {
	key := draftKey(d.ID)
	err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeDraft(data)
		if err != nil {
			return err
		}
		if current.Version != d.Version {
			return ErrConflict
		}

		next := *d
		next.Version++
		encoded, err := json.Marshal(&next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		d.Version = next.Version
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id types.ID) error {
	n, err := s.redis.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func draftKey(id types.ID) string {
	return draftKeyPrefix + string(id)
}
