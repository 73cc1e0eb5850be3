package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bankledger/pkg/idgen"

	"github.com/go-redis/redis/v8"
)

var ErrLockFailed = errors.New("failed to acquire distributed lock")

// DistributedLock is a redis SetNX lock with an owner token.
//
// Acquire: SET key value NX EX timeout. NX gives mutual exclusion, EX keeps a
// crashed holder from leaving the lock stuck forever. Release goes through a
// Lua script so the get-and-compare of the owner token and the DEL are one
// atomic step — otherwise a holder whose lock already expired could delete
// the next holder's lock.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string // owner token, checked on release
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts to take the lock without blocking.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock retries TryLock up to maxRetries times, waiting retryInterval between
// attempts.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock only if this instance still owns it.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewTransferLock creates the lock held while a transfer debits accountID.
// One lock per source account: different accounts transfer concurrently,
// while repeated submissions against the same account queue up instead of
// piling onto the database row lock.
func NewTransferLock(client *redis.Client, accountID int64) *DistributedLock {
	key := fmt.Sprintf("transfer:lock:account:%d", accountID)
	value := fmt.Sprintf("%d", idgen.NextID())
	return NewDistributedLock(client, key, value, 30*time.Second)
}
