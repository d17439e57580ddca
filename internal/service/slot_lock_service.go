package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request holds the lock for the same doctor and time
var ErrSlotLocked = errors.New("slot is locked by another request")

// RedisSlotLockKeyPrefix namespaces per-slot lock keys
const RedisSlotLockKeyPrefix = "appointment:slot:lock:"

// releaseSlotLockScript deletes the lock only when it still holds our token,
// so a request whose lock expired never frees a lock taken over by another request.
var releaseSlotLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotLocker serializes writers that target the same (doctor, time) slot
type SlotLocker interface {
	WithSlotLock(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotLocker(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) SlotLocker {
	return &redisSlotLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// SlotLockKey builds the Redis key for a doctor's slot, normalized to UTC
func SlotLockKey(doctorID uuid.UUID, dateTime time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotLockKeyPrefix, doctorID.String(), dateTime.UTC().Unix())
}

// WithSlotLock runs fn while holding the slot lock. fn receives a context bounded by the lock TTL.
// No retry is attempted when the lock is busy.
func (l *redisSlotLocker) WithSlotLock(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, fn func(ctx context.Context) error) error {
	key := SlotLockKey(doctorID, dateTime)
	token := uuid.NewString()

	ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.log.Warnf("Failed to acquire slot lock %s: %+v", key, err)
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrSlotLocked
	}

	defer func() {
		// Release even when the caller's context is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if _, err := releaseSlotLockScript.Run(releaseCtx, l.redisClient, []string{key}, token).Result(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}
