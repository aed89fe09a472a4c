package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const createClientSlotsTable = `CREATE TABLE IF NOT EXISTS client_slots (
	client_id  VARCHAR(64)  NOT NULL,
	slot_key   VARCHAR(64)  NOT NULL,
	slot_value MEDIUMTEXT   NOT NULL,
	expires_at DATETIME     NULL,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (client_id, slot_key)
)`

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed, slot operations may fail", "error", err)
	}

	return db, nil
}

// EnsureSchema creates the client_slots table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createClientSlotsTable)
	return err
}
