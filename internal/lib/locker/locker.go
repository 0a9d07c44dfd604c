// Package locker реализует взаимное исключение по ключу поверх Redis:
// SET NX PX с уникальным токеном и освобождение только владельцем.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
)

// ErrLockBusy блокировку не удалось получить до истечения ожидания.
var ErrLockBusy = errors.New("lock is busy")

const (
	keyPrefix  = "lock:"
	retryDelay = 50 * time.Millisecond
)

// Unlock освобождает полученную блокировку.
type Unlock func(ctx context.Context) error

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker выдаёт блокировки с TTL, хранящиеся в Redis.
type RedisLocker struct {
	db      *redis.Client
	ttl     time.Duration
	maxWait time.Duration
}

// InitClient подключается к Redis и проверяет соединение.
func InitClient(ctx context.Context, cfg config.RedisConnection) (*redis.Client, error) {
	const op = "locker.InitClient"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

// New создаёт RedisLocker. ttl ограничивает время жизни блокировки,
// ожидание освобождения занятого ключа длится не дольше ttl.
func New(db *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{db: db, ttl: ttl, maxWait: ttl}
}

// Lock захватывает блокировку key, ожидая её освобождения при необходимости.
func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	const op = "locker.Lock"
	redisKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.db.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			return func(ctx context.Context) error {
				if err := releaseScript.Run(ctx, l.db, []string{redisKey}, token).Err(); err != nil {
					return fmt.Errorf("locker.Unlock: %w", err)
				}
				return nil
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s: %s: %w", op, key, ErrLockBusy)
		}

		timer := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}
}

// Nop блокировка без взаимного исключения, когда Redis не настроен.
type Nop struct{}

// Lock всегда успешен.
func (Nop) Lock(context.Context, string) (Unlock, error) {
	return func(context.Context) error { return nil }, nil
}
