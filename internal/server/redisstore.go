package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/idilsaglam/todoboard/internal/model"
)

const defaultRedisPrefix = "todoboard"

// RedisStore keeps each todo as a JSON string and an id-scored sorted set
// for ordering and pagination.
//
// Keys (prefix "todoboard"):
//   - todoboard:next_id  INCR counter
//   - todoboard:ids      ZSET of ids scored by id
//   - todoboard:todo:ID  JSON item
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. prefix "" uses the default.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedisStore dials addr and pings it.
func OpenRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisStore(rdb, ""), nil
}

func (s *RedisStore) idsKey() string        { return s.prefix + ":ids" }
func (s *RedisStore) nextKey() string       { return s.prefix + ":next_id" }
func (s *RedisStore) itemKey(id int) string { return s.prefix + ":todo:" + strconv.Itoa(id) }

func (s *RedisStore) List(ctx context.Context, page, limit int) ([]model.Item, int, error) {
	total, err := s.rdb.ZCard(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("zcard: %w", err)
	}
	lo, hi := pageBounds(page, limit, int(total))
	if lo == hi {
		return []model.Item{}, int(total), nil
	}
	ids, err := s.rdb.ZRange(ctx, s.idsKey(), int64(lo), int64(hi-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("zrange: %w", err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.prefix + ":todo:" + id
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("mget: %w", err)
	}
	out := make([]model.Item, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		var it model.Item
		if err := json.Unmarshal([]byte(str), &it); err != nil {
			return nil, 0, fmt.Errorf("decode todo: %w", err)
		}
		out = append(out, it)
	}
	return out, int(total), nil
}

func (s *RedisStore) Get(ctx context.Context, id int) (model.Item, error) {
	raw, err := s.rdb.Get(ctx, s.itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Item{}, ErrNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	var it model.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return model.Item{}, fmt.Errorf("decode todo %d: %w", id, err)
	}
	return it, nil
}

func (s *RedisStore) Create(ctx context.Context, it model.Item) (model.Item, error) {
	id, err := s.rdb.Incr(ctx, s.nextKey()).Result()
	if err != nil {
		return model.Item{}, fmt.Errorf("next id: %w", err)
	}
	it.ID = int(id)
	b, err := json.Marshal(it)
	if err != nil {
		return model.Item{}, fmt.Errorf("encode todo: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.itemKey(it.ID), b, 0)
		p.ZAdd(ctx, s.idsKey(), redis.Z{Score: float64(it.ID), Member: strconv.Itoa(it.ID)})
		return nil
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("store todo %d: %w", it.ID, err)
	}
	return it, nil
}

func (s *RedisStore) Update(ctx context.Context, id int, p Patch) (model.Item, error) {
	key := s.itemKey(id)
	var updated model.Item
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var it model.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return fmt.Errorf("decode todo %d: %w", id, err)
		}
		updated = p.apply(it)
		b, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Item{}, err
		}
		return model.Item{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return updated, nil
}

func (s *RedisStore) Delete(ctx context.Context, id int) error {
	n, err := s.rdb.Del(ctx, s.itemKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if err := s.rdb.ZRem(ctx, s.idsKey(), strconv.Itoa(id)).Err(); err != nil {
		return fmt.Errorf("unindex todo %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
