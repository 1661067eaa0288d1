package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/localbook/localbook/internal/model"
)

type memSlots struct{ base }

func (r *memSlots) Reserve(ctx context.Context, businessID, date, tm string) (string, error) {
	defer r.lock()()
	id, ok := r.m.slotIndex[slotKey{businessID, date, tm}]
	if !ok {
		return "", model.ErrSlotUnavailable
	}
	sl := r.m.slots[id]
	if sl.Status != model.SlotAvailable {
		return "", model.ErrSlotUnavailable
	}
	sl.Status = model.SlotBooked
	r.m.slots[id] = sl
	return id, nil
}

func (r *memSlots) Release(ctx context.Context, slotID string) error {
	defer r.lock()()
	sl, ok := r.m.slots[slotID]
	if !ok {
		return model.ErrNotFound
	}
	sl.Status = model.SlotAvailable
	r.m.slots[slotID] = sl
	return nil
}

func (r *memSlots) UpsertMany(ctx context.Context, businessID string, entries []model.SlotEntry) (int, error) {
	defer r.lock()()
	processed := 0
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = model.SlotAvailable
		}
		key := slotKey{businessID, e.Date, e.Time}
		if id, ok := r.m.slotIndex[key]; ok {
			sl := r.m.slots[id]
			if sl.Status != model.SlotBooked {
				sl.Status = status
				r.m.slots[id] = sl
			}
		} else {
			sl := model.Slot{
				ID:         uuid.New().String(),
				BusinessID: businessID,
				Date:       e.Date,
				Time:       e.Time,
				Status:     status,
			}
			r.m.slots[sl.ID] = sl
			r.m.slotIndex[key] = sl.ID
		}
		processed++
	}
	return processed, nil
}

func (r *memSlots) Get(ctx context.Context, slotID string) (*model.Slot, error) {
	defer r.lock()()
	sl, ok := r.m.slots[slotID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &sl, nil
}

func (r *memSlots) ListAvailable(ctx context.Context, businessID, from, to string) ([]model.Slot, error) {
	defer r.lock()()
	var out []model.Slot
	for _, sl := range r.m.slots {
		if sl.BusinessID != businessID || sl.Status != model.SlotAvailable {
			continue
		}
		if sl.Date < from || sl.Date > to {
			continue
		}
		out = append(out, sl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

type memBookings struct{ base }

func (r *memBookings) Insert(ctx context.Context, b *model.Booking) error {
	defer r.lock()()
	r.m.bookings[b.ID] = *b
	return nil
}

func (r *memBookings) Get(ctx context.Context, id string) (*model.Booking, error) {
	defer r.lock()()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &b, nil
}

func (r *memBookings) Update(ctx context.Context, b *model.Booking) error {
	defer r.lock()()
	if _, ok := r.m.bookings[b.ID]; !ok {
		return model.ErrNotFound
	}
	r.m.bookings[b.ID] = *b
	return nil
}

func (r *memBookings) CodeExists(ctx context.Context, code string) (bool, error) {
	defer r.lock()()
	for _, b := range r.m.bookings {
		if b.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookings) ActiveBySlot(ctx context.Context, slotID string) (bool, error) {
	defer r.lock()()
	for _, b := range r.m.bookings {
		if b.AvailabilityID == slotID && b.Status != model.BookingCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookings) ListByClient(ctx context.Context, clientID string) ([]model.Booking, error) {
	defer r.lock()()
	return r.collect(func(b model.Booking) bool { return b.ClientID == clientID }), nil
}

func (r *memBookings) ListByBusiness(ctx context.Context, businessID string) ([]model.Booking, error) {
	defer r.lock()()
	return r.collect(func(b model.Booking) bool { return b.BusinessID == businessID }), nil
}

func (r *memBookings) collect(match func(model.Booking) bool) []model.Booking {
	var out []model.Booking
	for _, b := range r.m.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type memReviews struct{ base }

func (r *memReviews) Insert(ctx context.Context, rv *model.Review) error {
	defer r.lock()()
	r.m.reviews[rv.ID] = *rv
	return nil
}

func (r *memReviews) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	defer r.lock()()
	for _, rv := range r.m.reviews {
		if rv.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReviews) Summary(ctx context.Context, businessID string) (float64, int, error) {
	defer r.lock()()
	sum, count := 0, 0
	for _, rv := range r.m.reviews {
		if rv.BusinessID == businessID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *memReviews) ListByBusiness(ctx context.Context, businessID string) ([]model.Review, error) {
	defer r.lock()()
	var out []model.Review
	for _, rv := range r.m.reviews {
		if rv.BusinessID == businessID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
