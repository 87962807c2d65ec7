package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type Redis struct {
	client *redis.Client
	// set when the server runs in-process
	embedded *miniredis.Miniredis
}

func NewRedis(ctx context.Context, addr string, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	return &Redis{client: rdb}, nil
}

// NewEmbedded starts an in-process redis server and connects to it. Closing
// the returned store stops the server.
func NewEmbedded(ctx context.Context) (*Redis, error) {
	srv, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start embedded redis: %w", err)
	}

	r, err := NewRedis(ctx, srv.Addr(), "", 0)
	if err != nil {
		srv.Close()
		return nil, err
	}
	r.embedded = srv
	return r, nil
}

func (r *Redis) Close() error {
	err := r.client.Close()
	if r.embedded != nil {
		r.embedded.Close()
	}
	return err
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *Redis) RPush(ctx context.Context, key string, values ...interface{}) error {
	return r.client.RPush(ctx, key, values...).Err()
}

func (r *Redis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	val, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *Redis) LRem(ctx context.Context, key string, count int64, value interface{}) error {
	return r.client.LRem(ctx, key, count, value).Err()
}
