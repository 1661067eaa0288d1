package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/localbook/localbook/internal/model"
)

type bookingStore struct{ q querier }

const bookingColumns = `id, client_id, business_id, service_id, availability_id, date, time,
	price, commission_amount, status, cancellation_charge, confirmation_code, created_at, updated_at`

func (s *bookingStore) Insert(ctx context.Context, b *model.Booking) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.ClientID, b.BusinessID, b.ServiceID, b.AvailabilityID, b.Date, b.Time,
		b.Price, b.CommissionAmount, b.Status, b.CancellationCharge, b.ConfirmationCode,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *bookingStore) Get(ctx context.Context, id string) (*model.Booking, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func (s *bookingStore) Update(ctx context.Context, b *model.Booking) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE bookings SET status = $1, cancellation_charge = $2, updated_at = $3 WHERE id = $4`,
		b.Status, b.CancellationCharge, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *bookingStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE confirmation_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmation code: %w", err)
	}
	return exists, nil
}

func (s *bookingStore) ActiveBySlot(ctx context.Context, slotID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings WHERE availability_id = $1 AND status <> 'cancelled'
		 )`, slotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot booking: %w", err)
	}
	return exists, nil
}

func (s *bookingStore) ListByClient(ctx context.Context, clientID string) ([]model.Booking, error) {
	return s.list(ctx, `client_id`, clientID)
}

func (s *bookingStore) ListByBusiness(ctx context.Context, businessID string) ([]model.Booking, error) {
	return s.list(ctx, `business_id`, businessID)
}

func (s *bookingStore) list(ctx context.Context, column, id string) ([]model.Booking, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.ClientID, &b.BusinessID, &b.ServiceID, &b.AvailabilityID,
		&b.Date, &b.Time, &b.Price, &b.CommissionAmount, &b.Status, &b.CancellationCharge,
		&b.ConfirmationCode, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

type reviewStore struct{ q querier }

func (s *reviewStore) Insert(ctx context.Context, r *model.Review) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO reviews (id, booking_id, client_id, business_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.BookingID, r.ClientID, r.BusinessID, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *reviewStore) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return exists, nil
}

func (s *reviewStore) Summary(ctx context.Context, businessID string) (float64, int, error) {
	var avg float64
	var count int
	err := s.q.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating)::float, 0), COUNT(*) FROM reviews WHERE business_id = $1`,
		businessID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("review summary: %w", err)
	}
	return avg, count, nil
}

func (s *reviewStore) ListByBusiness(ctx context.Context, businessID string) ([]model.Review, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, booking_id, client_id, business_id, rating, comment, created_at
		 FROM reviews WHERE business_id = $1 ORDER BY created_at DESC`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.BookingID, &r.ClientID, &r.BusinessID,
			&r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
