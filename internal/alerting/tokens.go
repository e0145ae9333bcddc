package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/petprotect/hub/internal/errors"
	"github.com/redis/go-redis/v9"
)

// TokenStore keeps push tokens keyed by owner email in Redis. Tokens are
// rewritten on every app start, so there is no expiry to manage.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func tokenKey(owner string) string {
	return fmt.Sprintf("pushtoken:%s", owner)
}

// Save stores or replaces the owner's push token.
func (s *TokenStore) Save(ctx context.Context, owner, token string) error {
	if err := s.client.Set(ctx, tokenKey(owner), token, 0).Err(); err != nil {
		return errors.NewDatabaseError("failed to save push token", err)
	}
	return nil
}

// Get returns the owner's push token, NotFound if none was registered.
func (s *TokenStore) Get(ctx context.Context, owner string) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(owner)).Result()
	if err == redis.Nil {
		return "", errors.NewNotFoundError(fmt.Sprintf("no push token for %s", owner), nil)
	}
	if err != nil {
		return "", errors.NewDatabaseError("failed to read push token", err)
	}
	return token, nil
}

// Ping verifies the Redis connection, used by the health endpoint.
func (s *TokenStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
