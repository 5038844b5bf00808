package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	bootstrapKey = "signup:bootstrap"
	bootstrapTTL = 30 * time.Second
)

// BootstrapGuard serialises first-admin signup attempts across processes.
// The admin-existence check in signup is check-then-act and has no
// store-level uniqueness backstop (role is not unique), so a short SETNX
// lease closes the window.
type BootstrapGuard struct {
	client *redis.Client
}

// NewBootstrapGuard creates a BootstrapGuard wrapping the given Redis client.
func NewBootstrapGuard(client *redis.Client) *BootstrapGuard {
	return &BootstrapGuard{client: client}
}

// Acquire takes the signup lease. Returns false when another signup holds it.
func (g *BootstrapGuard) Acquire(ctx context.Context) (bool, error) {
	ok, err := g.client.SetNX(ctx, bootstrapKey, "1", bootstrapTTL).Result()
	if err != nil {
		return false, fmt.Errorf("bootstrap guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the lease. The TTL reclaims it if the holder dies first.
func (g *BootstrapGuard) Release(ctx context.Context) error {
	return g.client.Del(ctx, bootstrapKey).Err()
}
