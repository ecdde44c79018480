package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Mirror wraps another Store and replicates every save into a Postgres
// table keyed by record name, last write wins. Loads fall back to the
// database when the local copy is absent, which lets a fresh deployment
// pick up where the previous one left off. Mirror write failures are
// logged, never propagated; the wrapped store stays authoritative.
type Mirror struct {
	next Store
	pool *pgxpool.Pool
}

// NewMirror connects to the database, ensures the record table exists and
// returns the mirroring store.
func NewMirror(ctx context.Context, next Store, databaseURL string) (*Mirror, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS record_store (
			name TEXT PRIMARY KEY,
			content JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create record_store table: %w", err)
	}

	log.Info().Msg("record store mirror enabled")
	return &Mirror{next: next, pool: pool}, nil
}

// Close releases the database pool.
func (m *Mirror) Close() {
	m.pool.Close()
}

// Load reads from the wrapped store first and falls back to the database,
// seeding the local copy on a hit.
func (m *Mirror) Load(ctx context.Context, name string, v any) error {
	err := m.next.Load(ctx, name, v)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	var content []byte
	row := m.pool.QueryRow(ctx, `SELECT content FROM record_store WHERE name = $1`, name)
	if err := row.Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load mirrored record %s: %w", name, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to decode mirrored record %s: %w", name, err)
	}
	if err := m.next.Save(ctx, name, json.RawMessage(content)); err != nil {
		log.Warn().Err(err).Str("record", name).Msg("failed to seed local record from mirror")
	}
	return nil
}

// Save writes through to the wrapped store, then upserts the document into
// the database.
func (m *Mirror) Save(ctx context.Context, name string, v any) error {
	if err := m.next.Save(ctx, name, v); err != nil {
		return err
	}

	content, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", name, err)
	}
	_, err = m.pool.Exec(ctx, `
		INSERT INTO record_store (name, content, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
	`, name, content)
	if err != nil {
		log.Error().Err(err).Str("record", name).Msg("failed to mirror record")
	}
	return nil
}
