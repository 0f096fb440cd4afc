package redisclient

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/rate_limit.lua
var rateLimitScript string

const (
	notificationsKey    = "notifications:admin"
	maxNotificationKept = 200
)

type Client struct {
	rdb       *redis.Client
	rateLimit *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newClient(rdb), nil
}

func newClient(rdb *redis.Client) *Client {
	return &Client{
		rdb:       rdb,
		rateLimit: redis.NewScript(rateLimitScript),
	}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// RateDecision is the outcome of one rate-limited attempt
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow counts an attempt against key in a fixed window of the given length.
// Counting and expiry happen atomically in a Lua script.
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error) {
	result, err := c.rateLimit.Run(ctx, c.rdb, []string{"ratelimit:" + key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return RateDecision{}, fmt.Errorf("rate limit script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return RateDecision{}, fmt.Errorf("unexpected script result type")
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	ttl, _ := values[2].(int64)

	decision := RateDecision{Allowed: allowed == 1, Remaining: int(remaining)}
	if !decision.Allowed {
		decision.RetryAfter = time.Duration(ttl) * time.Millisecond
	}
	return decision, nil
}

// PushNotification prepends n to the admin feed, keeping the newest entries
func (c *Client) PushNotification(ctx context.Context, n *models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, notificationsKey, payload)
	pipe.LTrim(ctx, notificationsKey, 0, maxNotificationKept-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}

// RecentNotifications returns up to limit notifications, newest first
func (c *Client) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		return []models.Notification{}, nil
	}

	raw, err := c.rdb.LRange(ctx, notificationsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(raw))
	for _, r := range raw {
		var n models.Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			// skip entries written by an incompatible version
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
