package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const settingsTTL = 60 * time.Second

// SettingsCache is a read-through cache in front of the settings table.
// It is best-effort: any Redis failure falls back to the database, and a
// nil *SettingsCache is a valid no-op cache.
type SettingsCache struct {
	client *redis.Client
}

// New connects to Redis. An empty URL disables caching (returns nil).
func New(redisURL string) *SettingsCache {
	if redisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, cache disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, cache disabled: %v", err)
		return nil
	}

	return &SettingsCache{client: client}
}

func (c *SettingsCache) key(settingKey string) string {
	return "settings:" + settingKey
}

func (c *SettingsCache) Get(ctx context.Context, settingKey string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, c.key(settingKey)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *SettingsCache) Put(ctx context.Context, settingKey, value string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, c.key(settingKey), value, settingsTTL).Err(); err != nil {
		log.Printf("settings cache put failed: %v", err)
	}
}

// Invalidate must run after every settings mutation, before the caller
// reports success.
func (c *SettingsCache) Invalidate(ctx context.Context, settingKey string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(settingKey)).Err(); err != nil {
		log.Printf("settings cache invalidate failed: %v", err)
	}
}
