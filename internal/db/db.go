// Package db provides PostgreSQL connection management and schema
// bootstrap.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates and validates a pgxpool connection pool. It retries a
// few times to accommodate containers still starting up.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping failed")
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Bootstrap creates the schema when absent. The partial unique index on
// bookings.availability_id is the database-level backstop for the
// one-active-booking-per-slot invariant.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS businesses (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		zone TEXT NOT NULL DEFAULT '',
		commission_rate DOUBLE PRECISION NOT NULL DEFAULT 0.15,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_reviews INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('client', 'business')),
		business_id UUID NULL REFERENCES businesses(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price > 0),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_services_business ON services(business_id) WHERE active;

	CREATE TABLE IF NOT EXISTS availability (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'booked')),
		UNIQUE (business_id, date, time)
	);
	CREATE INDEX IF NOT EXISTS idx_availability_open
		ON availability(business_id, date) WHERE status = 'available';

	CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		client_id UUID NOT NULL REFERENCES users(id),
		business_id UUID NOT NULL REFERENCES businesses(id),
		service_id UUID NOT NULL REFERENCES services(id),
		availability_id UUID NOT NULL REFERENCES availability(id),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		commission_amount DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
		cancellation_charge DOUBLE PRECISION NOT NULL DEFAULT 0,
		confirmation_code TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
		ON bookings(availability_id) WHERE status <> 'cancelled';
	CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_bookings_business ON bookings(business_id, created_at);

	CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY,
		booking_id UUID NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
		client_id UUID NOT NULL REFERENCES users(id),
		business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_business ON reviews(business_id, created_at);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}
