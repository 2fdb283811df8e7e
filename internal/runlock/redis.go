package runlock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vnbcrawler:lock:"

// ErrLocked means another run currently owns the store.
var ErrLocked = errors.New("store is locked by another run")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lock serializes runs that read and rewrite the same output file. The key
// expires after TTL so a crashed run cannot hold it forever.
type Lock struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration

	token string
}

func New(client *redis.Client, outputPath string, ttl time.Duration) *Lock {
	return &Lock{Client: client, Key: Key(outputPath), TTL: ttl}
}

// Key derives the lock key for an output file.
func Key(outputPath string) string {
	if abs, err := filepath.Abs(outputPath); err == nil {
		outputPath = abs
	}
	return keyPrefix + filepath.Clean(outputPath)
}

func (l *Lock) Acquire(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, l.Key, token, l.TTL).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.Key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, l.Key)
	}
	l.token = token
	return nil
}

// Release drops the lock if this Lock still owns it.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, l.Client, []string{l.Key}, l.token).Err()
	l.token = ""
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.Key, err)
	}
	return nil
}
