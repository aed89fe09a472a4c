package repository

import (
	"context"
	"sync"
	"time"
)

type memorySlot struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps slots in process memory. Expired slots are dropped on read.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]memorySlot),
		now:   time.Now,
	}
}

func memoryKey(clientID, key string) string {
	return clientID + "\x00" + key
}

func (s *MemoryStore) Get(_ context.Context, clientID, key string) (string, error) {
	k := memoryKey(clientID, key)

	s.mu.RLock()
	slot, ok := s.slots[k]
	s.mu.RUnlock()
	if !ok {
		return "", ErrSlotNotFound
	}

	if !slot.expiresAt.IsZero() && !s.now().Before(slot.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.slots[k]; ok && cur == slot {
			delete(s.slots, k)
		}
		s.mu.Unlock()
		return "", ErrSlotNotFound
	}

	return slot.value, nil
}

func (s *MemoryStore) Set(_ context.Context, clientID, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[memoryKey(clientID, key)] = memorySlot{value: value, expiresAt: expiryFrom(s.now(), ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, clientID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, memoryKey(clientID, key))
	return nil
}

// PurgeExpired drops every expired slot and returns how many were removed.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, slot := range s.slots {
		if !slot.expiresAt.IsZero() && !now.Before(slot.expiresAt) {
			delete(s.slots, k)
			n++
		}
	}
	return n, nil
}
