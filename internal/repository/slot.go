package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
)

// SlotStore is a client's persistent key/value storage. A ttl of zero keeps
// the value until it is overwritten or deleted. Writes are last-write-wins.
type SlotStore interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, clientID, key string) error
}

func expiryFrom(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
