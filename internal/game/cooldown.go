// Package game implements the criminal guild game layer: ranks, crimes,
// PvP attacks, the casino, and the cooldown discipline shared by all of
// them.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cooldowns tracks per-(user, chat, action) cooldown windows with TTL
// semantics. Check both tests and arms the cooldown in one call.
type Cooldowns interface {
	// Check returns ok=true and arms the cooldown when no window is
	// active, or ok=false with the remaining time when one is.
	Check(ctx context.Context, userID, chatID int64, action string, ttl time.Duration) (ok bool, remaining time.Duration, err error)

	// Clear drops an armed cooldown, letting the action retry immediately.
	Clear(ctx context.Context, userID, chatID int64, action string) error
}

func cooldownKey(userID, chatID int64, action string) string {
	return fmt.Sprintf("cooldown:%d:%d:%s", userID, chatID, action)
}

// memoryCooldowns keeps cooldown deadlines in a process-local map. Suitable
// for a single bot instance; swap in the Redis variant when scaling out.
type memoryCooldowns struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

// memoryCleanupAt bounds the map size before expired entries are swept.
const memoryCleanupAt = 1000

// NewMemoryCooldowns returns an in-memory cooldown tracker.
func NewMemoryCooldowns() Cooldowns {
	return &memoryCooldowns{deadlines: make(map[string]time.Time)}
}

func (m *memoryCooldowns) Check(_ context.Context, userID, chatID int64, action string, ttl time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	key := cooldownKey(userID, chatID, action)

	if deadline, exists := m.deadlines[key]; exists && deadline.After(now) {
		return false, deadline.Sub(now), nil
	}

	m.deadlines[key] = now.Add(ttl)
	if len(m.deadlines) > memoryCleanupAt {
		m.sweep(now)
	}
	return true, 0, nil
}

func (m *memoryCooldowns) Clear(_ context.Context, userID, chatID int64, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deadlines, cooldownKey(userID, chatID, action))
	return nil
}

// sweep drops expired entries. Caller holds the lock.
func (m *memoryCooldowns) sweep(now time.Time) {
	for key, deadline := range m.deadlines {
		if deadline.Before(now) {
			delete(m.deadlines, key)
		}
	}
}

// redisCooldowns stores cooldown windows as Redis keys with native TTLs,
// sharing state across bot instances.
type redisCooldowns struct {
	client *redis.Client
}

// NewRedisCooldowns returns a Redis-backed cooldown tracker.
func NewRedisCooldowns(client *redis.Client) Cooldowns {
	return &redisCooldowns{client: client}
}

func (r *redisCooldowns) Check(ctx context.Context, userID, chatID int64, action string, ttl time.Duration) (bool, time.Duration, error) {
	key := cooldownKey(userID, chatID, action)

	set, err := r.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to arm cooldown %s: %w", key, err)
	}
	if set {
		return true, 0, nil
	}

	remaining, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read cooldown ttl %s: %w", key, err)
	}
	if remaining < 0 {
		// Key vanished between SetNX and PTTL.
		return false, 0, nil
	}
	return false, remaining, nil
}

func (r *redisCooldowns) Clear(ctx context.Context, userID, chatID int64, action string) error {
	if err := r.client.Del(ctx, cooldownKey(userID, chatID, action)).Err(); err != nil {
		return fmt.Errorf("failed to clear cooldown: %w", err)
	}
	return nil
}
