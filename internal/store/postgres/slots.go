package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/localbook/localbook/internal/model"
)

type slotStore struct{ q querier }

// Reserve flips the slot to booked in one conditional UPDATE, so the
// availability check and the status change are inseparable. Of two
// concurrent reservations on the same key exactly one matches the
// status = 'available' predicate.
func (s *slotStore) Reserve(ctx context.Context, businessID, date, tm string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx,
		`UPDATE availability SET status = 'booked'
		 WHERE business_id = $1 AND date = $2 AND time = $3 AND status = 'available'
		 RETURNING id`,
		businessID, date, tm,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrSlotUnavailable
		}
		return "", fmt.Errorf("reserve slot: %w", err)
	}
	return id, nil
}

func (s *slotStore) Release(ctx context.Context, slotID string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE availability SET status = 'available' WHERE id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpsertMany inserts or overwrites schedule entries. The WHERE clause on
// the conflict update keeps booked slots out of reach of bulk edits.
func (s *slotStore) UpsertMany(ctx context.Context, businessID string, entries []model.SlotEntry) (int, error) {
	processed := 0
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = model.SlotAvailable
		}
		_, err := s.q.Exec(ctx,
			`INSERT INTO availability (id, business_id, date, time, status)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (business_id, date, time)
			 DO UPDATE SET status = EXCLUDED.status
			 WHERE availability.status <> 'booked'`,
			uuid.New().String(), businessID, e.Date, e.Time, status,
		)
		if err != nil {
			return processed, fmt.Errorf("upsert slot %s %s: %w", e.Date, e.Time, err)
		}
		processed++
	}
	return processed, nil
}

func (s *slotStore) Get(ctx context.Context, slotID string) (*model.Slot, error) {
	var sl model.Slot
	err := s.q.QueryRow(ctx,
		`SELECT id, business_id, date, time, status FROM availability WHERE id = $1`,
		slotID,
	).Scan(&sl.ID, &sl.BusinessID, &sl.Date, &sl.Time, &sl.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return &sl, nil
}

func (s *slotStore) ListAvailable(ctx context.Context, businessID, from, to string) ([]model.Slot, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, business_id, date, time, status FROM availability
		 WHERE business_id = $1 AND status = 'available' AND date >= $2 AND date <= $3
		 ORDER BY date ASC, time ASC`,
		businessID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(&sl.ID, &sl.BusinessID, &sl.Date, &sl.Time, &sl.Status); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}
