package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"evcast/backend/services/scheduling-service/internal/models"
)

// ErrSlotHeld means another writer holds the slot right now.
var ErrSlotHeld = errors.New("slot is held by another writer")

// releaseScript deletes the hold only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotHolds reserves station slots for the duration of a booking write.
type SlotHolds struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotHolds returns redis-backed slot holds.
func NewSlotHolds(client *redis.Client, ttl time.Duration) *SlotHolds {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SlotHolds{client: client, ttl: ttl}
}

// HoldKey returns the redis key of a slot hold.
func HoldKey(slot models.Slot) string {
	return fmt.Sprintf("evcast:slot-hold:%s:%s:%02d", slot.Location, slot.Date, slot.Hour)
}

// Acquire sets the hold with SET NX. The returned release func must be called once
// the write finished.
func (s *SlotHolds) Acquire(ctx context.Context, slot models.Slot) (func(context.Context) error, error) {
	key := HoldKey(slot)
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotHeld
	}

	release := func(ctx context.Context) error {
		err := releaseScript.Run(ctx, s.client, []string{key}, token).Err()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return release, nil
}
