package repository

import (
	"context"
	"time"

	"github.com/universityinsights/insights-web/internal/crypto"
)

type sealedStore struct {
	inner  SlotStore
	sealer *crypto.Sealer
}

// Sealed wraps a store so that values are encrypted before they reach it.
// Each value is bound to its client and key; a value copied to another slot
// fails to open and reads as missing.
func Sealed(inner SlotStore, sealer *crypto.Sealer) SlotStore {
	return &sealedStore{inner: inner, sealer: sealer}
}

func sealContext(clientID, key string) string {
	return clientID + "/" + key
}

func (s *sealedStore) Get(ctx context.Context, clientID, key string) (string, error) {
	v, err := s.inner.Get(ctx, clientID, key)
	if err != nil {
		return "", err
	}

	plain, err := s.sealer.Open(v, sealContext(clientID, key))
	if err != nil {
		return "", ErrSlotNotFound
	}
	return plain, nil
}

func (s *sealedStore) Set(ctx context.Context, clientID, key, value string, ttl time.Duration) error {
	sealed, err := s.sealer.Seal(value, sealContext(clientID, key))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, clientID, key, sealed, ttl)
}

func (s *sealedStore) Delete(ctx context.Context, clientID, key string) error {
	return s.inner.Delete(ctx, clientID, key)
}
