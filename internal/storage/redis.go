package storage

import (
	"context"
	"errors"

	"github.com/GTDGit/storefront/internal/cache"
)

const (
	redisKeyPrefix     = "storefront:"
	redisChannelPrefix = "storefront:changed:"
)

// Redis stores blobs in Redis so several processes (devices, BFF replicas)
// share one client state. Every write is also published so watchers learn
// about it.
type Redis struct {
	client *cache.RedisClient
}

// NewRedis wraps a connected RedisClient.
func NewRedis(client *cache.RedisClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, redisKeyPrefix+key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0); err != nil {
		return err
	}
	return r.client.Publish(ctx, redisChannelPrefix+key, value)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Delete(ctx, redisKeyPrefix+key); err != nil {
		return err
	}
	return r.client.Publish(ctx, redisChannelPrefix+key, nil)
}

func (r *Redis) Watch(ctx context.Context, key string) (<-chan Change, error) {
	sub, err := r.client.Subscribe(ctx, redisChannelPrefix+key)
	if err != nil {
		return nil, err
	}

	out := make(chan Change, watchBuffer)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var value []byte
				if msg.Payload != "" {
					value = []byte(msg.Payload)
				}
				deliver(out, Change{Key: key, Value: value})
			}
		}
	}()
	return out, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
