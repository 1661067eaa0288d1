package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/localbook/localbook/internal/model"
)

type userStore struct{ q querier }

func (s *userStore) Insert(ctx context.Context, u *model.User) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, business_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.BusinessID, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *userStore) Get(ctx context.Context, id string) (*model.User, error) {
	return s.scanOne(s.q.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, COALESCE(business_id::text, ''), created_at
		 FROM users WHERE id = $1`, id))
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanOne(s.q.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, COALESCE(business_id::text, ''), created_at
		 FROM users WHERE email = $1`, email))
}

func (s *userStore) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.BusinessID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

type businessStore struct{ q querier }

func (s *businessStore) Insert(ctx context.Context, b *model.Business) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO businesses (id, name, category, email, address, phone, zone, commission_rate, rating, total_reviews, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.Name, b.Category, b.Email, b.Address, b.Phone, b.Zone,
		b.CommissionRate, b.Rating, b.TotalReviews, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (s *businessStore) Get(ctx context.Context, id string) (*model.Business, error) {
	var b model.Business
	err := s.q.QueryRow(ctx,
		`SELECT id, name, category, email, address, phone, zone, commission_rate, rating, total_reviews, created_at
		 FROM businesses WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Category, &b.Email, &b.Address, &b.Phone, &b.Zone,
		&b.CommissionRate, &b.Rating, &b.TotalReviews, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

func (s *businessStore) List(ctx context.Context, category string) ([]model.BusinessSummary, error) {
	query := `SELECT id, name, category, rating, total_reviews FROM businesses`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY rating DESC, name ASC`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var out []model.BusinessSummary
	for rows.Next() {
		var b model.BusinessSummary
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.Rating, &b.TotalReviews); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *businessStore) UpdateRating(ctx context.Context, id string, rating float64, totalReviews int) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE businesses SET rating = $1, total_reviews = $2 WHERE id = $3`,
		rating, totalReviews, id,
	)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

type serviceStore struct{ q querier }

func (s *serviceStore) Insert(ctx context.Context, svc *model.Service) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO services (id, business_id, name, duration_minutes, price, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		svc.ID, svc.BusinessID, svc.Name, svc.DurationMinutes, svc.Price, svc.Active, svc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *serviceStore) GetActive(ctx context.Context, serviceID, businessID string) (*model.Service, error) {
	var svc model.Service
	err := s.q.QueryRow(ctx,
		`SELECT id, business_id, name, duration_minutes, price, active, created_at
		 FROM services WHERE id = $1 AND business_id = $2 AND active`,
		serviceID, businessID,
	).Scan(&svc.ID, &svc.BusinessID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.Active, &svc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &svc, nil
}

func (s *serviceStore) ListActive(ctx context.Context, businessID string) ([]model.Service, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, business_id, name, duration_minutes, price, active, created_at
		 FROM services WHERE business_id = $1 AND active ORDER BY created_at DESC`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.BusinessID, &svc.Name, &svc.DurationMinutes,
			&svc.Price, &svc.Active, &svc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (s *serviceStore) Deactivate(ctx context.Context, serviceID, businessID string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE services SET active = FALSE WHERE id = $1 AND business_id = $2`,
		serviceID, businessID,
	)
	if err != nil {
		return fmt.Errorf("deactivate service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrServiceNotFound
	}
	return nil
}
