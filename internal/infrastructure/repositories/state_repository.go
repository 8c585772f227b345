package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/notesvc/domain"
)

// StateRepositoryImpl implements domain.StateRepository using Redis.
// Nonces expire on their own through the key TTL; Consume deletes
// eagerly so a nonce can never authorize two callbacks.
type StateRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStateRepository creates a new OAuth state repository
func NewStateRepository(client *redis.Client, ttl time.Duration) domain.StateRepository {
	return &StateRepositoryImpl{
		client: client,
		prefix: "oauth:state:",
		ttl:    ttl,
	}
}

// Create implements domain.StateRepository
func (r *StateRepositoryImpl) Create(ctx context.Context, nonce string) error {
	return r.client.Set(ctx, r.prefix+nonce, 1, r.ttl).Err()
}

// Consume implements domain.StateRepository
func (r *StateRepositoryImpl) Consume(ctx context.Context, nonce string) error {
	deleted, err := r.client.Del(ctx, r.prefix+nonce).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrStateNotFound
	}
	return nil
}
