// Package cache wraps the optional Redis instance used for short-lived
// dashboard counts. Everything degrades gracefully: with no Redis the feed
// just counts at the database on every request.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	activityCountKeyFmt = "feed:count:%s"
	activityCountTTL    = 10 * time.Second
)

var client *redis.Client

// Init connects to Redis. A failed connection is not fatal; the client is
// left nil and all helpers become no-ops.
func Init(addr, password string) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, or nil when the cache is disabled.
func GetClient() *redis.Client {
	return client
}

// GetActivityCount reads a cached per-kind activity count.
func GetActivityCount(ctx context.Context, kind string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	val, err := client.Get(ctx, fmt.Sprintf(activityCountKeyFmt, kind)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetActivityCount caches a per-kind activity count with a short TTL.
func SetActivityCount(ctx context.Context, kind string, n int64) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(activityCountKeyFmt, kind), strconv.FormatInt(n, 10), activityCountTTL)
}
