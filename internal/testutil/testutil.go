// Package testutil holds shared helpers for package tests: a fake HotelFlow
// API server and Redis setup that skips when no server is reachable.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPingTimeout = 2 * time.Second
	redisLockTTL     = 30 * time.Minute
	redisMaxDB       = 15
)

// redisCandidates are tried in order when TEST_REDIS_ADDR is unset.
var redisCandidates = []string{"localhost:6379", "redis:6379", "localhost:56379"}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// redisRequired turns a missing Redis into a test failure instead of a skip.
func redisRequired() bool {
	return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA")
}

// FindTestRedis returns the first Redis address that answers a ping.
// TEST_REDIS_ADDR, when set, is the only address tried.
func FindTestRedis(t testing.TB) (string, bool) {
	t.Helper()
	candidates := redisCandidates
	if addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR")); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		if err := pingRedis(addr); err != nil {
			t.Logf("redis not available at %s: %v", addr, err)
			continue
		}
		return addr, true
	}
	return "", false
}

func pingRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: 500 * time.Millisecond})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

// reserveTestDB returns TEST_REDIS_DB when set. Otherwise it claims a DB in
// [1..15] through a lock key in DB 0, released when the test ends, so
// packages running in parallel do not flush each other's data.
func reserveTestDB(t testing.TB, addr string) int {
	t.Helper()
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			return db
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer meta.Close()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= redisMaxDB; db++ {
		lockKey := "hotelflow:testutil:db_lock:" + strconv.Itoa(db)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		ok, err := meta.SetNX(ctx, lockKey, owner, redisLockTTL).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() { releaseTestDB(t, addr, lockKey) })
		return db
	}
	return 1
}

func releaseTestDB(t testing.TB, addr, lockKey string) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := c.Del(ctx, lockKey).Err(); err != nil {
		t.Logf("release redis db lock %s: %v", lockKey, err)
	}
}

// SetupTestRedis returns a client on a freshly flushed test DB. The test is
// skipped when Redis is unreachable unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, ok := FindTestRedis(t)
	if !ok {
		if redisRequired() {
			t.Fatal("redis not available for testing")
		}
		t.Skip("redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveTestDB(t, addr)})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		if redisRequired() {
			t.Fatalf("flush test redis at %s: %v", addr, err)
		}
		t.Skipf("flush test redis at %s: %v", addr, err)
	}
	return client
}
