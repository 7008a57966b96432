package redis

import (
	"context"
	"fmt"
	"time"
)

// syncLockKey builds the lease key serializing jobs per (jurisdiction, data source).
func syncLockKey(jurisdiction, dataSource string) string {
	return fmt.Sprintf("apl:sync:lock:%s:%s", jurisdiction, dataSource)
}

// AcquireSyncLock takes the per-source sync lease. It returns false when
// another job already holds it. The TTL bounds how long a crashed job can
// keep a source locked.
func (c *RedisClient) AcquireSyncLock(ctx context.Context, jurisdiction, dataSource, owner string, ttl time.Duration) (bool, error) {
	return c.SetNX(ctx, syncLockKey(jurisdiction, dataSource), owner, ttl)
}

// ReleaseSyncLock releases the per-source sync lease if the caller owns it.
func (c *RedisClient) ReleaseSyncLock(ctx context.Context, jurisdiction, dataSource, owner string) error {
	key := syncLockKey(jurisdiction, dataSource)

	// Only the owner may release; a stale release after TTL expiry must not
	// drop a lease a newer job has taken.
	const script = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`
	return c.client.Eval(ctx, script, []string{key}, owner).Err()
}
