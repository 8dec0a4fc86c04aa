package attendance

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCountsCache caches a day's department counts for a short TTL and is
// invalidated on every scan. All failures degrade to cache misses so a dead
// redis never blocks reports.
type RedisCountsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCountsCache builds a cache over an existing client.
func NewRedisCountsCache(client *redis.Client, ttl time.Duration) *RedisCountsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCountsCache{client: client, ttl: ttl}
}

func countsKey(day string) string { return "latecomer:deptcounts:" + day }

func (c *RedisCountsCache) Get(ctx context.Context, day string) ([]DepartmentCount, bool) {
	raw, err := c.client.Get(ctx, countsKey(day)).Bytes()
	if err != nil {
		return nil, false
	}
	var counts []DepartmentCount
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (c *RedisCountsCache) Set(ctx context.Context, day string, counts []DepartmentCount) {
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, countsKey(day), raw, c.ttl).Err(); err != nil {
		log.Printf("counts cache set %s: %v", day, err)
	}
}

func (c *RedisCountsCache) Invalidate(ctx context.Context, day string) {
	if err := c.client.Del(ctx, countsKey(day)).Err(); err != nil {
		log.Printf("counts cache invalidate %s: %v", day, err)
	}
}
