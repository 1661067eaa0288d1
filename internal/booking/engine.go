// Package booking implements the booking lifecycle and slot-consistency
// engine: slot reservation and release, the
// pending → confirmed/cancelled/completed state machine, cancellation
// penalties, commission amounts and review aggregation.
package booking

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/notify"
	"github.com/localbook/localbook/internal/store"
)

const (
	// freeCancellationNotice is the minimum notice for a charge-free
	// cancellation. Exactly 24 hours out is still free.
	freeCancellationNotice = 24 * time.Hour

	// lateCancellationRate is the share of the service price charged when
	// the notice is shorter.
	lateCancellationRate = 0.5
)

const cancellationPolicy = "Free cancellation until 24 hours before the appointment. " +
	"Cancelling later incurs a charge of 50% of the service price and the slot is not reopened."

// Engine orchestrates booking operations over the injected store. Every
// mutating operation runs inside a single store transaction, so the slot
// ledger and the booking table can never drift apart.
type Engine struct {
	store    store.Store
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
	codes    *CodeGenerator
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRandSource replaces the confirmation-code random source.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) { e.codes = NewCodeGenerator(src) }
}

// NewEngine constructs an Engine.
func NewEngine(st store.Store, notifier notify.Notifier, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		codes:    NewCodeGenerator(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateBooking reserves the slot at (businessID, date, tm) and creates a
// pending booking against it as one atomic unit. The returned detail
// includes the business contact fields withheld from catalog browsing.
func (e *Engine) CreateBooking(ctx context.Context, clientID, businessID, serviceID, date, tm string) (*model.BookingDetail, error) {
	if !model.ValidSlotKey(date, tm) {
		return nil, model.ErrSlotUnavailable
	}

	var (
		detail *model.BookingDetail
		biz    *model.Business
	)
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		svc, err := tx.Services().GetActive(ctx, serviceID, businessID)
		if err != nil {
			return err
		}
		biz, err = tx.Businesses().Get(ctx, businessID)
		if err != nil {
			return err
		}

		code, err := e.uniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		slotID, err := tx.Slots().Reserve(ctx, businessID, date, tm)
		if err != nil {
			return err
		}

		now := e.now()
		b := model.Booking{
			ID:               uuid.New().String(),
			ClientID:         clientID,
			BusinessID:       businessID,
			ServiceID:        svc.ID,
			AvailabilityID:   slotID,
			Date:             date,
			Time:             tm,
			Price:            svc.Price,
			CommissionAmount: model.Round2(svc.Price * biz.CommissionRate),
			Status:           model.BookingPending,
			ConfirmationCode: code,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Bookings().Insert(ctx, &b); err != nil {
			return err
		}

		detail = &model.BookingDetail{
			Booking: b,
			Business: model.BusinessContact{
				Name:    biz.Name,
				Address: biz.Address,
				Phone:   biz.Phone,
				Zone:    biz.Zone,
			},
			CancellationPolicy: cancellationPolicy,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notify(notify.TemplateBookingCreated, biz.Email, map[string]string{
		"confirmation_code": detail.Booking.ConfirmationCode,
		"date":              date,
		"time":              tm,
	})
	return detail, nil
}

// uniqueCode generates a confirmation code, regenerating on collision up
// to maxCodeAttempts times.
func (e *Engine) uniqueCode(ctx context.Context, tx store.Store) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := e.codes.Next()
		exists, err := tx.Bookings().CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("confirmation code space exhausted after %d attempts", maxCodeAttempts)
}

// Confirm moves a pending booking to confirmed. Business action.
func (e *Engine) Confirm(ctx context.Context, bookingID, businessID string) (*model.Booking, error) {
	b, err := e.transition(ctx, bookingID, func(tx store.Store, b *model.Booking) error {
		if b.BusinessID != businessID {
			return model.ErrNotFound
		}
		switch b.Status {
		case model.BookingCancelled:
			return model.ErrAlreadyCancelled
		case model.BookingPending:
		default:
			return model.ErrInvalidState
		}
		b.Status = model.BookingConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.notifyClient(ctx, b, notify.TemplateBookingConfirmed)
	return b, nil
}

// Reject cancels a not-yet-terminal booking from the business side and
// releases its slot. Rejection never charges the client.
func (e *Engine) Reject(ctx context.Context, bookingID, businessID string) (*model.Booking, error) {
	b, err := e.transition(ctx, bookingID, func(tx store.Store, b *model.Booking) error {
		if b.BusinessID != businessID {
			return model.ErrNotFound
		}
		switch b.Status {
		case model.BookingCancelled:
			return model.ErrAlreadyCancelled
		case model.BookingCompleted:
			return model.ErrInvalidState
		}
		if err := tx.Slots().Release(ctx, b.AvailabilityID); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.notifyClient(ctx, b, notify.TemplateBookingRejected)
	return b, nil
}

// Cancel cancels a booking from the client side. With less than 24 hours'
// notice half the price is charged and the slot stays blocked; with 24
// hours or more the cancellation is free and the slot reopens.
func (e *Engine) Cancel(ctx context.Context, bookingID, clientID string) (*model.Booking, error) {
	b, err := e.transition(ctx, bookingID, func(tx store.Store, b *model.Booking) error {
		if b.ClientID != clientID {
			return model.ErrNotFound
		}
		switch b.Status {
		case model.BookingCancelled:
			return model.ErrAlreadyCancelled
		case model.BookingCompleted:
			return model.ErrInvalidState
		}

		scheduled, err := b.ScheduledAt()
		if err != nil {
			return err
		}
		if scheduled.Sub(e.now()) < freeCancellationNotice {
			b.CancellationCharge = model.Round2(b.Price * lateCancellationRate)
		} else {
			b.CancellationCharge = 0
			if err := tx.Slots().Release(ctx, b.AvailabilityID); err != nil {
				return err
			}
		}
		b.Status = model.BookingCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if biz, gerr := e.store.Businesses().Get(ctx, b.BusinessID); gerr == nil {
		e.notify(notify.TemplateBookingCancelled, biz.Email, map[string]string{
			"confirmation_code":   b.ConfirmationCode,
			"cancellation_charge": fmt.Sprintf("%.2f", b.CancellationCharge),
		})
	}
	return b, nil
}

// Complete marks a confirmed booking completed once its scheduled time has
// passed. Business action; stands in for the out-of-band completion
// process.
func (e *Engine) Complete(ctx context.Context, bookingID, businessID string) (*model.Booking, error) {
	return e.transition(ctx, bookingID, func(tx store.Store, b *model.Booking) error {
		if b.BusinessID != businessID {
			return model.ErrNotFound
		}
		switch b.Status {
		case model.BookingCancelled:
			return model.ErrAlreadyCancelled
		case model.BookingConfirmed:
		default:
			return model.ErrInvalidState
		}
		scheduled, err := b.ScheduledAt()
		if err != nil {
			return err
		}
		if e.now().Before(scheduled) {
			return model.ErrInvalidState
		}
		b.Status = model.BookingCompleted
		return nil
	})
}

// transition loads the booking, applies fn and persists the result inside
// one transaction.
func (e *Engine) transition(ctx context.Context, bookingID string, fn func(store.Store, *model.Booking) error) (*model.Booking, error) {
	var out *model.Booking
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		b, err := tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := fn(tx, b); err != nil {
			return err
		}
		b.UpdatedAt = e.now()
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttachReview records a rating for a completed booking and recomputes the
// business's running rating from the full review set.
func (e *Engine) AttachReview(ctx context.Context, bookingID, clientID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, model.ErrInvalidRating
	}

	var review *model.Review
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		b, err := tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.ClientID != clientID {
			return model.ErrNotFound
		}
		if b.Status != model.BookingCompleted {
			return model.ErrInvalidState
		}

		exists, err := tx.Reviews().ExistsForBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrDuplicateReview
		}

		r := model.Review{
			ID:         uuid.New().String(),
			BookingID:  bookingID,
			ClientID:   clientID,
			BusinessID: b.BusinessID,
			Rating:     rating,
			Comment:    comment,
			CreatedAt:  e.now(),
		}
		if err := tx.Reviews().Insert(ctx, &r); err != nil {
			return err
		}

		// Always recompute from the source of truth, never increment.
		avg, count, err := tx.Reviews().Summary(ctx, b.BusinessID)
		if err != nil {
			return err
		}
		if err := tx.Businesses().UpdateRating(ctx, b.BusinessID, model.Round1(avg), count); err != nil {
			return err
		}
		review = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if biz, gerr := e.store.Businesses().Get(ctx, review.BusinessID); gerr == nil {
		e.notify(notify.TemplateReviewReceived, biz.Email, map[string]string{
			"rating": fmt.Sprintf("%d", review.Rating),
		})
	}
	return review, nil
}

// UpsertSchedule bulk-creates or updates a business's availability. Booked
// slots are never downgraded by a schedule edit.
func (e *Engine) UpsertSchedule(ctx context.Context, businessID string, entries []model.SlotEntry) (int, error) {
	for _, entry := range entries {
		if !model.ValidSlotKey(entry.Date, entry.Time) {
			return 0, fmt.Errorf("invalid slot key %q %q", entry.Date, entry.Time)
		}
		if entry.Status != "" && entry.Status != model.SlotAvailable && entry.Status != model.SlotBooked {
			return 0, fmt.Errorf("invalid slot status %q", entry.Status)
		}
	}

	var processed int
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		processed, err = tx.Slots().UpsertMany(ctx, businessID, entries)
		return err
	})
	return processed, err
}

// ReopenSlot releases a slot retained by a late cancellation. It refuses
// while any non-cancelled booking still holds the slot.
func (e *Engine) ReopenSlot(ctx context.Context, slotID, businessID string) error {
	return e.store.WithTx(ctx, func(tx store.Store) error {
		sl, err := tx.Slots().Get(ctx, slotID)
		if err != nil {
			return err
		}
		if sl.BusinessID != businessID {
			return model.ErrNotFound
		}
		if sl.Status != model.SlotBooked {
			return model.ErrInvalidState
		}
		active, err := tx.Bookings().ActiveBySlot(ctx, slotID)
		if err != nil {
			return err
		}
		if active {
			return model.ErrInvalidState
		}
		return tx.Slots().Release(ctx, slotID)
	})
}

// ListClientBookings returns the client's bookings, newest first.
func (e *Engine) ListClientBookings(ctx context.Context, clientID string) ([]model.Booking, error) {
	return e.store.Bookings().ListByClient(ctx, clientID)
}

// ListBusinessBookings returns the business's bookings, newest first.
func (e *Engine) ListBusinessBookings(ctx context.Context, businessID string) ([]model.Booking, error) {
	return e.store.Bookings().ListByBusiness(ctx, businessID)
}

// notifyClient emails the booking's client, best effort.
func (e *Engine) notifyClient(ctx context.Context, b *model.Booking, template string) {
	u, err := e.store.Users().Get(ctx, b.ClientID)
	if err != nil {
		e.log.Warn("notification recipient lookup failed",
			zap.String("booking_id", b.ID), zap.Error(err))
		return
	}
	e.notify(template, u.Email, map[string]string{
		"confirmation_code": b.ConfirmationCode,
		"date":              b.Date,
		"time":              b.Time,
	})
}

// notify sends a notification and logs failures without propagating them.
func (e *Engine) notify(template, recipient string, fields map[string]string) {
	if e.notifier == nil || recipient == "" {
		return
	}
	if err := e.notifier.Notify(context.Background(), template, recipient, fields); err != nil {
		e.log.Warn("notification failed",
			zap.String("template", template),
			zap.String("recipient", recipient),
			zap.Error(err))
	}
}
