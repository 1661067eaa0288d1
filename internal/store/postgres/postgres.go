// Package postgres implements the store interfaces on pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localbook/localbook/internal/store"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed implementation of store.Store.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// New builds a Store over a connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// WithTx runs fn inside a single database transaction. Nested calls reuse
// the enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.pool == nil {
		// Already transactional.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Users() store.UserStore          { return &userStore{q: s.q} }
func (s *Store) Businesses() store.BusinessStore { return &businessStore{q: s.q} }
func (s *Store) Services() store.ServiceStore    { return &serviceStore{q: s.q} }
func (s *Store) Slots() store.SlotStore          { return &slotStore{q: s.q} }
func (s *Store) Bookings() store.BookingStore    { return &bookingStore{q: s.q} }
func (s *Store) Reviews() store.ReviewStore      { return &reviewStore{q: s.q} }
