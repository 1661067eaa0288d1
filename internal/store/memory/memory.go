// Package memory is an in-memory store.Store used by tests and local
// development. A single mutex serialises atomic units, giving WithTx the
// same isolation the postgres implementation gets from transactions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/store"
)

type slotKey struct {
	businessID, date, tm string
}

// Memory holds every collection behind one lock.
type Memory struct {
	mu sync.Mutex

	users      map[string]model.User
	emailIndex map[string]string
	businesses map[string]model.Business
	services   map[string]model.Service
	slots      map[string]model.Slot
	slotIndex  map[slotKey]string
	bookings   map[string]model.Booking
	reviews    map[string]model.Review
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		users:      make(map[string]model.User),
		emailIndex: make(map[string]string),
		businesses: make(map[string]model.Business),
		services:   make(map[string]model.Service),
		slots:      make(map[string]model.Slot),
		slotIndex:  make(map[slotKey]string),
		bookings:   make(map[string]model.Booking),
		reviews:    make(map[string]model.Review),
	}
}

// WithTx holds the store lock for the whole of fn, so the enclosed
// operations are one atomic unit with respect to concurrent callers.
func (m *Memory) WithTx(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&txView{m})
}

func (m *Memory) Users() store.UserStore          { return &memUsers{base{m, false}} }
func (m *Memory) Businesses() store.BusinessStore { return &memBusinesses{base{m, false}} }
func (m *Memory) Services() store.ServiceStore    { return &memServices{base{m, false}} }
func (m *Memory) Slots() store.SlotStore          { return &memSlots{base{m, false}} }
func (m *Memory) Bookings() store.BookingStore    { return &memBookings{base{m, false}} }
func (m *Memory) Reviews() store.ReviewStore      { return &memReviews{base{m, false}} }

// txView hands out repositories that skip locking; the WithTx caller
// already holds the lock.
type txView struct{ m *Memory }

func (t *txView) WithTx(ctx context.Context, fn func(store.Store) error) error { return fn(t) }

func (t *txView) Users() store.UserStore          { return &memUsers{base{t.m, true}} }
func (t *txView) Businesses() store.BusinessStore { return &memBusinesses{base{t.m, true}} }
func (t *txView) Services() store.ServiceStore    { return &memServices{base{t.m, true}} }
func (t *txView) Slots() store.SlotStore          { return &memSlots{base{t.m, true}} }
func (t *txView) Bookings() store.BookingStore    { return &memBookings{base{t.m, true}} }
func (t *txView) Reviews() store.ReviewStore      { return &memReviews{base{t.m, true}} }

type base struct {
	m    *Memory
	inTx bool
}

// lock acquires the store lock unless the caller is already inside a
// transaction. Use as defer b.lock()().
func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.m.mu.Lock()
	return b.m.mu.Unlock
}

type memUsers struct{ base }

func (r *memUsers) Insert(ctx context.Context, u *model.User) error {
	defer r.lock()()
	if _, ok := r.m.emailIndex[u.Email]; ok {
		return model.ErrEmailTaken
	}
	r.m.users[u.ID] = *u
	r.m.emailIndex[u.Email] = u.ID
	return nil
}

func (r *memUsers) Get(ctx context.Context, id string) (*model.User, error) {
	defer r.lock()()
	u, ok := r.m.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer r.lock()()
	id, ok := r.m.emailIndex[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	u := r.m.users[id]
	return &u, nil
}

type memBusinesses struct{ base }

func (r *memBusinesses) Insert(ctx context.Context, b *model.Business) error {
	defer r.lock()()
	r.m.businesses[b.ID] = *b
	return nil
}

func (r *memBusinesses) Get(ctx context.Context, id string) (*model.Business, error) {
	defer r.lock()()
	b, ok := r.m.businesses[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &b, nil
}

func (r *memBusinesses) List(ctx context.Context, category string) ([]model.BusinessSummary, error) {
	defer r.lock()()
	var out []model.BusinessSummary
	for _, b := range r.m.businesses {
		if category != "" && b.Category != category {
			continue
		}
		out = append(out, b.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memBusinesses) UpdateRating(ctx context.Context, id string, rating float64, totalReviews int) error {
	defer r.lock()()
	b, ok := r.m.businesses[id]
	if !ok {
		return model.ErrNotFound
	}
	b.Rating = rating
	b.TotalReviews = totalReviews
	r.m.businesses[id] = b
	return nil
}

type memServices struct{ base }

func (r *memServices) Insert(ctx context.Context, s *model.Service) error {
	defer r.lock()()
	r.m.services[s.ID] = *s
	return nil
}

func (r *memServices) GetActive(ctx context.Context, serviceID, businessID string) (*model.Service, error) {
	defer r.lock()()
	s, ok := r.m.services[serviceID]
	if !ok || !s.Active || s.BusinessID != businessID {
		return nil, model.ErrServiceNotFound
	}
	return &s, nil
}

func (r *memServices) ListActive(ctx context.Context, businessID string) ([]model.Service, error) {
	defer r.lock()()
	var out []model.Service
	for _, s := range r.m.services {
		if s.BusinessID == businessID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memServices) Deactivate(ctx context.Context, serviceID, businessID string) error {
	defer r.lock()()
	s, ok := r.m.services[serviceID]
	if !ok || s.BusinessID != businessID {
		return model.ErrServiceNotFound
	}
	s.Active = false
	r.m.services[serviceID] = s
	return nil
}
