package redis

import (
	"context"
	"fmt"

	"github.com/hilomatch/hilo-core/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client represents a Redis client
type Client struct {
	*redis.Client
}

// New creates a new Redis client
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to Redis: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// Health checks the Redis health
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// WakeChannel is the pub/sub channel the Scheduler listens on so an admin
// inserting a slot earlier than the currently-sleeping wake time can
// interrupt the sleep instead of waiting for a DB poll.
const WakeChannel = "hilo:scheduler:wake"

// PublishWake notifies any sleeping scheduler task to re-evaluate its next
// wake time. Best-effort: a failed publish just means the scheduler notices
// the new slot when its current sleep ends (the next pending slot's time or
// its idle poll) instead of immediately.
func (c *Client) PublishWake(ctx context.Context) error {
	return c.Publish(ctx, WakeChannel, "wake").Err()
}
