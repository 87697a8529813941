// Package store is the Postgres-backed persistence layer for every entity
// in spec.md §3. There is no in-process game registry: every command
// transaction takes a SELECT ... FOR UPDATE on the target game row and
// reads/writes through that lock, and the per-game read-only views open
// their own repeatable-read transaction so the rows they read can't be
// torn by a concurrent writer. ListGames queries the pool directly,
// outside any transaction.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/logging"
)

var log = logging.Logger("STORE")

// Store wraps a connection pool and applies the schema on New.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	log.Info("connected and schema applied")
	return &Store{pool: pool}, nil
}

// Close releases the pool. Call once at process shutdown.
func (s *Store) Close() {
	s.pool.Close()
}

// WithTx runs fn inside a new read-write transaction, committing on
// success and rolling back on error.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return s.withTxOpts(ctx, pgx.TxOptions{}, fn)
}

// WithReadTx runs fn inside a repeatable-read, read-only transaction:
// every row fn reads comes from one consistent snapshot, so a caller
// that reads a game's metadata and then its round/trick detail can't
// observe a round transition landing partway through (spec.md §4.8's
// "consistent frame" requirement for the Snapshot Builder).
func (s *Store) WithReadTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return s.withTxOpts(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) withTxOpts(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apierrors.Wrap(apierrors.TransientStorage, err, "commit transaction")
	}
	return nil
}
