package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "matchday/pkg/domain"
)

const (
	keyPrefix       = "matchday:lock:match:"
	defaultLeaseTTL = 10 * time.Second
	retryInterval   = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot free somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker backed by a Redis lease (SET NX PX).
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

type RedisOption func(*RedisLocker)

// WithLeaseTTL sets how long a lock survives without being released.
func WithLeaseTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithWait bounds how long Lock retries when ctx has no deadline.
func WithWait(wait time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if wait > 0 {
			l.wait = wait
		}
	}
}

func WithLogger(logger *slog.Logger) RedisOption {
	return func(l *RedisLocker) {
		l.logger = logger
	}
}

func NewRedisLocker(client redis.UniversalClient, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		ttl:    defaultLeaseTTL,
		wait:   defaultWait,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, matchID id.MatchID) (func(), error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	key := keyPrefix + matchID.String()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire match lock: %w", err)
		}
		if ok {
			return l.unlocker(key, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, lockTimeout(matchID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	return func() {
		// Release must run even when the caller's ctx is already done.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.WarnContext(ctx, "failed to release match lock", "key", key, "error", err)
		}
	}
}

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
