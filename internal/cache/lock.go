package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired 锁已被占用
var ErrLockNotAcquired = errors.New("lock not acquired")

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 基于 SET NX 的分布式锁
type Lock struct {
	key   string
	token string
}

// AcquireLock 尝试加锁，在 wait 时间内按 interval 重试；Redis 未启用时返回 nil 锁且不报错
func AcquireLock(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error) {
	if !Enabled() {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	fullKey := buildKey("lock:" + key)
	token := uuid.NewString()
	deadline := time.Now().Add(wait)
	const interval = 25 * time.Millisecond

	for {
		ok, err := redisClient.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lock{key: fullKey, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockNotAcquired
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release 释放锁，仅删除自己持有的 token
func (l *Lock) Release(ctx context.Context) error {
	if l == nil || !Enabled() {
		return nil
	}
	return releaseLockScript.Run(ctx, redisClient, []string{l.key}, l.token).Err()
}
