package model

import (
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2026-03-02", "10:30")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	want := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := CombineDateTime("02-03-2026", "10:30"); err == nil {
		t.Error("non-ISO date accepted")
	}
	if _, err := CombineDateTime("2026-03-02", "25:00"); err == nil {
		t.Error("hour 25 accepted")
	}
}

func TestValidSlotKey(t *testing.T) {
	cases := []struct {
		date, tm string
		want     bool
	}{
		{"2026-03-02", "10:00", true},
		{"2026-03-02", "00:00", true},
		{"2026-03-02", "23:59", true},
		{"2026-02-30", "10:00", false},
		{"2026-3-2", "10:00", false},
		{"2026-03-02", "10:60", false},
		{"2026-03-02", "10", false},
		{"", "10:00", false},
		{"2026-03-02", "", false},
	}
	for _, tc := range cases {
		if got := ValidSlotKey(tc.date, tc.tm); got != tc.want {
			t.Errorf("ValidSlotKey(%q, %q) = %v, want %v", tc.date, tc.tm, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{6.0, 6.00},
		{4.9995, 5.00},
		{20.004, 20.00},
		{20.006, 20.01},
		{33.33 * 0.15, 5.00},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound1(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{4.0, 4.0},
		{11.0 / 3.0, 3.7},
		{4.25, 4.3},
		{4.04, 4.0},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.want {
			t.Errorf("Round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScheduledAt(t *testing.T) {
	b := Booking{Date: "2026-03-02", Time: "10:00"}
	got, err := b.ScheduledAt()
	if err != nil {
		t.Fatalf("scheduled at: %v", err)
	}
	if want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
