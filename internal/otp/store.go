// Package otp is a keyed store with TTL eviction for one-time passwords.
// Redis owns expiry; nothing here holds state in process.
package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:mobile:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Put(ctx context.Context, mobile, code string) error {
	return s.client.Set(ctx, keyPrefix+mobile, code, s.ttl).Err()
}

// Get returns the code for mobile, or "" when none is pending.
func (s *Store) Get(ctx context.Context, mobile string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+mobile).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *Store) Delete(ctx context.Context, mobile string) error {
	return s.client.Del(ctx, keyPrefix+mobile).Err()
}
