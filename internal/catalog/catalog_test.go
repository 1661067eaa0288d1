package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/store/memory"
)

func newTestCatalog() (*Catalog, *memory.Memory) {
	st := memory.New()
	c := New(st)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return c, st
}

func TestListAvailabilityValidatesRange(t *testing.T) {
	c, _ := newTestCatalog()
	ctx := context.Background()
	bizID := uuid.New().String()

	cases := []struct{ from, to string }{
		{"03/01/2026", "2026-03-05"},
		{"2026-03-01", "garbage"},
		{"2026-03-05", "2026-03-01"}, // inverted
	}
	for _, tc := range cases {
		if _, err := c.ListAvailability(ctx, bizID, tc.from, tc.to); !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("ListAvailability(%q, %q): err = %v, want ErrInvalidDateRange", tc.from, tc.to, err)
		}
	}
}

func TestListAvailabilityDefaultsToThirtyDayWindow(t *testing.T) {
	c, st := newTestCatalog()
	ctx := context.Background()
	bizID := uuid.New().String()
	if _, err := st.Slots().UpsertMany(ctx, bizID, []model.SlotEntry{
		{Date: "2026-02-28", Time: "09:00"}, // before today
		{Date: "2026-03-15", Time: "09:00"}, // inside window
		{Date: "2026-03-31", Time: "09:00"}, // 30 days out, inclusive
		{Date: "2026-04-01", Time: "09:00"}, // past the window
	}); err != nil {
		t.Fatalf("seed slots: %v", err)
	}

	slots, err := c.ListAvailability(ctx, bizID, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2: %+v", len(slots), slots)
	}
	if slots[0].Date != "2026-03-15" || slots[1].Date != "2026-03-31" {
		t.Errorf("window contents wrong: %+v", slots)
	}
}

func TestCreateServiceValidatesAndRoundsPrice(t *testing.T) {
	c, _ := newTestCatalog()
	ctx := context.Background()
	bizID := uuid.New().String()

	for _, tc := range []struct {
		name     string
		duration int
		price    float64
	}{
		{"", 30, 40},
		{"   ", 30, 40},
		{"Haircut", 0, 40},
		{"Haircut", 30, 0},
		{"Haircut", 30, -5},
	} {
		if _, err := c.CreateService(ctx, bizID, tc.name, tc.duration, tc.price); !errors.Is(err, ErrInvalidService) {
			t.Errorf("CreateService(%q, %d, %v): err = %v, want ErrInvalidService", tc.name, tc.duration, tc.price, err)
		}
	}

	svc, err := c.CreateService(ctx, bizID, "  Haircut  ", 30, 39.999)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if svc.Name != "Haircut" {
		t.Errorf("name = %q, want trimmed", svc.Name)
	}
	if svc.Price != 40.00 {
		t.Errorf("price = %v, want 40.00", svc.Price)
	}
	if !svc.Active {
		t.Error("new service should be active")
	}
}

func TestDeactivatedServiceLeavesCatalog(t *testing.T) {
	c, _ := newTestCatalog()
	ctx := context.Background()
	bizID := uuid.New().String()

	svc, err := c.CreateService(ctx, bizID, "Haircut", 30, 40)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.DeactivateService(ctx, svc.ID, bizID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := c.GetService(ctx, svc.ID, bizID); !errors.Is(err, model.ErrServiceNotFound) {
		t.Errorf("get deactivated: err = %v, want ErrServiceNotFound", err)
	}
	listed, err := c.ListServices(ctx, bizID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("deactivated service still listed: %+v", listed)
	}
}

func TestDeactivateRequiresOwnership(t *testing.T) {
	c, _ := newTestCatalog()
	ctx := context.Background()
	bizID := uuid.New().String()
	svc, err := c.CreateService(ctx, bizID, "Haircut", 30, 40)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.DeactivateService(ctx, svc.ID, uuid.New().String()); !errors.Is(err, model.ErrServiceNotFound) {
		t.Errorf("foreign deactivate: err = %v, want ErrServiceNotFound", err)
	}
}

func TestListBusinessesOrdersByRating(t *testing.T) {
	c, st := newTestCatalog()
	ctx := context.Background()
	for _, b := range []*model.Business{
		{ID: uuid.New().String(), Name: "Low", Category: "barber", Rating: 3.0},
		{ID: uuid.New().String(), Name: "High", Category: "barber", Rating: 4.8},
	} {
		if err := st.Businesses().Insert(ctx, b); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	out, err := c.ListBusinesses(ctx, "barber")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || out[0].Name != "High" {
		t.Errorf("ordering wrong: %+v", out)
	}
}
