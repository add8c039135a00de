package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Store implements recordstore.Store over the records table.
type Store struct {
	conn *Connection
}

// NewStore creates a Store over an open connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// Get decodes the snapshot under key into dest.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	var data []byte
	query := `SELECT snapshot FROM records WHERE key = $1`

	err := s.conn.pool.QueryRow(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recordstore.ErrNotFound
		}
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	return nil
}

// Set encodes value as JSON and upserts it under key.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	query := `
		INSERT INTO records (key, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET snapshot = $2, updated_at = NOW()
	`

	if _, err := s.conn.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	return nil
}

// Remove deletes the snapshot under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	if _, err := s.conn.pool.Exec(ctx, `DELETE FROM records WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: %v", recordstore.ErrUnavailable, err)
	}

	return nil
}

// Ping checks database reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
