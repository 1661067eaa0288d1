// Package store defines the storage abstraction the booking engine depends
// on. Two implementations exist: postgres (production) and memory (tests).
package store

import (
	"context"

	"github.com/localbook/localbook/internal/model"
)

// Store groups the entity repositories behind one handle.
//
// WithTx runs fn against a store whose operations all execute inside a
// single atomic unit; if fn returns an error nothing it did is observable.
// The engine's create/cancel/reject/review flows each run inside one
// WithTx call, which is the sole mechanism keeping the slot ledger and the
// booking table consistent.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	Users() UserStore
	Businesses() BusinessStore
	Services() ServiceStore
	Slots() SlotStore
	Bookings() BookingStore
	Reviews() ReviewStore
}

// UserStore persists accounts.
type UserStore interface {
	Insert(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// BusinessStore persists businesses. UpdateRating is called only by the
// review aggregation.
type BusinessStore interface {
	Insert(ctx context.Context, b *model.Business) error
	Get(ctx context.Context, id string) (*model.Business, error)
	List(ctx context.Context, category string) ([]model.BusinessSummary, error)
	UpdateRating(ctx context.Context, id string, rating float64, totalReviews int) error
}

// ServiceStore persists service offerings.
type ServiceStore interface {
	Insert(ctx context.Context, s *model.Service) error
	// GetActive returns the service only when it is active and owned by
	// businessID; cross-business references come back as not found.
	GetActive(ctx context.Context, serviceID, businessID string) (*model.Service, error)
	ListActive(ctx context.Context, businessID string) ([]model.Service, error)
	Deactivate(ctx context.Context, serviceID, businessID string) error
}

// SlotStore is the slot ledger: it owns the available/booked state machine.
type SlotStore interface {
	// Reserve atomically flips the slot at (businessID, date, tm) from
	// available to booked and returns its id. The check and the flip are a
	// single step; a concurrent Reserve on the same key sees
	// model.ErrSlotUnavailable.
	Reserve(ctx context.Context, businessID, date, tm string) (string, error)
	// Release sets the slot back to available. Callers only release slots
	// they know to be booked.
	Release(ctx context.Context, slotID string) error
	// UpsertMany creates or overwrites slots in bulk. Slots currently
	// booked are left untouched. Returns the number of entries processed.
	UpsertMany(ctx context.Context, businessID string, entries []model.SlotEntry) (int, error)
	Get(ctx context.Context, slotID string) (*model.Slot, error)
	ListAvailable(ctx context.Context, businessID, from, to string) ([]model.Slot, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	CodeExists(ctx context.Context, code string) (bool, error)
	// ActiveBySlot reports whether a non-cancelled booking holds the slot.
	ActiveBySlot(ctx context.Context, slotID string) (bool, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Booking, error)
	ListByBusiness(ctx context.Context, businessID string) ([]model.Booking, error)
}

// ReviewStore persists reviews.
type ReviewStore interface {
	Insert(ctx context.Context, r *model.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	// Summary returns the mean rating and count over all of the business's
	// reviews, always recomputed from the full set.
	Summary(ctx context.Context, businessID string) (avg float64, count int, err error)
	ListByBusiness(ctx context.Context, businessID string) ([]model.Review, error)
}
