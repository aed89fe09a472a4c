package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MySQLStore persists slots in the client_slots table.
type MySQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewMySQLStore creates a new MySQLStore.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, now: time.Now}
}

// Get returns the slot value unless it is missing or expired.
func (r *MySQLStore) Get(ctx context.Context, clientID, key string) (string, error) {
	query := `SELECT slot_value FROM client_slots
		WHERE client_id = ? AND slot_key = ? AND (expires_at IS NULL OR expires_at > ?)`

	var value string
	err := r.db.QueryRowContext(ctx, query, clientID, key, r.now().UTC()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSlotNotFound
		}
		return "", err
	}

	return value, nil
}

// Set upserts the slot, replacing any previous value and expiry.
func (r *MySQLStore) Set(ctx context.Context, clientID, key, value string, ttl time.Duration) error {
	query := `INSERT INTO client_slots (client_id, slot_key, slot_value, expires_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE slot_value = VALUES(slot_value), expires_at = VALUES(expires_at)`

	_, err := r.db.ExecContext(ctx, query, clientID, key, value, nullExpiry(r.now().UTC(), ttl))
	return err
}

// Delete removes the slot. Deleting a missing slot is not an error.
func (r *MySQLStore) Delete(ctx context.Context, clientID, key string) error {
	query := `DELETE FROM client_slots WHERE client_id = ? AND slot_key = ?`

	_, err := r.db.ExecContext(ctx, query, clientID, key)
	return err
}

// PurgeExpired deletes every expired slot and returns how many were removed.
func (r *MySQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM client_slots WHERE expires_at IS NOT NULL AND expires_at <= ?`

	result, err := r.db.ExecContext(ctx, query, r.now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullExpiry(now time.Time, ttl time.Duration) sql.NullTime {
	exp := expiryFrom(now, ttl)
	return sql.NullTime{Time: exp, Valid: !exp.IsZero()}
}
