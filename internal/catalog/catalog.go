// Package catalog covers the read-mostly business and service surface:
// public browsing plus business-side service management. Booking money
// figures (price, commission rate) are read through here and never mutated
// during a booking flow.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/store"
)

// ErrInvalidDateRange flags a malformed or inverted availability window.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrInvalidService flags a rejected service payload.
var ErrInvalidService = errors.New("service needs a name, a positive price and a positive duration")

// defaultWindowDays is how far ahead availability browsing looks when the
// caller gives no explicit range.
const defaultWindowDays = 30

// Catalog exposes the catalog read and management paths.
type Catalog struct {
	store store.Store
	now   func() time.Time
}

// New constructs a Catalog.
func New(st store.Store) *Catalog {
	return &Catalog{store: st, now: time.Now}
}

// ListBusinesses returns public business summaries, optionally filtered by
// category. Contact details are not part of the summary.
func (c *Catalog) ListBusinesses(ctx context.Context, category string) ([]model.BusinessSummary, error) {
	return c.store.Businesses().List(ctx, strings.TrimSpace(category))
}

// GetBusiness returns a business by id.
func (c *Catalog) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	return c.store.Businesses().Get(ctx, id)
}

// GetService returns the active service owned by businessID, or
// model.ErrServiceNotFound for inactive or cross-business references.
func (c *Catalog) GetService(ctx context.Context, serviceID, businessID string) (*model.Service, error) {
	return c.store.Services().GetActive(ctx, serviceID, businessID)
}

// ListServices returns a business's active services.
func (c *Catalog) ListServices(ctx context.Context, businessID string) ([]model.Service, error) {
	return c.store.Services().ListActive(ctx, businessID)
}

// ListAvailability returns a business's open slots inside [from, to].
// Dates are typed parameters validated here, never interpolated into a
// query. Empty bounds default to a window starting today.
func (c *Catalog) ListAvailability(ctx context.Context, businessID, from, to string) ([]model.Slot, error) {
	if from == "" {
		from = c.now().Format(model.DateLayout)
	}
	if to == "" {
		f, err := time.Parse(model.DateLayout, from)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		to = f.AddDate(0, 0, defaultWindowDays).Format(model.DateLayout)
	}
	f, err := time.Parse(model.DateLayout, from)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	t, err := time.Parse(model.DateLayout, to)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if t.Before(f) {
		return nil, ErrInvalidDateRange
	}
	return c.store.Slots().ListAvailable(ctx, businessID, from, to)
}

// CreateService lists a new offering for the business.
func (c *Catalog) CreateService(ctx context.Context, businessID, name string, durationMinutes int, price float64) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 || durationMinutes <= 0 {
		return nil, ErrInvalidService
	}
	svc := model.Service{
		ID:              uuid.New().String(),
		BusinessID:      businessID,
		Name:            name,
		DurationMinutes: durationMinutes,
		Price:           model.Round2(price),
		Active:          true,
		CreatedAt:       c.now(),
	}
	if err := c.store.Services().Insert(ctx, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// DeactivateService takes a service off the catalog. Existing bookings
// keep the price copied at creation time.
func (c *Catalog) DeactivateService(ctx context.Context, serviceID, businessID string) error {
	return c.store.Services().Deactivate(ctx, serviceID, businessID)
}

// ListReviews returns a business's reviews, newest first.
func (c *Catalog) ListReviews(ctx context.Context, businessID string) ([]model.Review, error) {
	return c.store.Reviews().ListByBusiness(ctx, businessID)
}
