// Package model defines the core domain types for the booking marketplace.
package model

import (
	"fmt"
	"math"
	"time"
)

// Slot statuses.
const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Account roles carried in auth tokens.
const (
	RoleClient   = "client"
	RoleBusiness = "business"
)

// Date and time-of-day layouts used across the availability schedule.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DefaultCommissionRate is applied to businesses that do not negotiate
// a custom rate.
const DefaultCommissionRate = 0.15

// User is an authenticated account. Business accounts carry the ID of the
// business they act for.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	BusinessID   string    `json:"business_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Business is a service provider on the marketplace. Contact fields are
// withheld from public browsing and revealed only on a created booking.
// Rating and TotalReviews are mutated only by the review aggregation.
type Business struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Email          string    `json:"-"`
	Address        string    `json:"-"`
	Phone          string    `json:"-"`
	Zone           string    `json:"-"`
	CommissionRate float64   `json:"commission_rate"`
	Rating         float64   `json:"rating"`
	TotalReviews   int       `json:"total_reviews"`
	CreatedAt      time.Time `json:"created_at"`
}

// BusinessSummary is the public browsing view of a business.
type BusinessSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}

// Summary strips the private contact fields.
func (b *Business) Summary() BusinessSummary {
	return BusinessSummary{
		ID:           b.ID,
		Name:         b.Name,
		Category:     b.Category,
		Rating:       b.Rating,
		TotalReviews: b.TotalReviews,
	}
}

// Service is an offering listed by a business. The price is copied into a
// booking at creation time, so later edits never affect existing bookings.
type Service struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"business_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Slot is one unit of bookable capacity, unique per (business, date, time).
type Slot struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
}

// SlotEntry is one element of a bulk schedule upsert.
type SlotEntry struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// Booking links a client, a service and exactly one consumed slot.
type Booking struct {
	ID                 string    `json:"id"`
	ClientID           string    `json:"client_id"`
	BusinessID         string    `json:"business_id"`
	ServiceID          string    `json:"service_id"`
	AvailabilityID     string    `json:"availability_id"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	Price              float64   `json:"price"`
	CommissionAmount   float64   `json:"commission_amount"`
	Status             string    `json:"status"`
	CancellationCharge float64   `json:"cancellation_charge"`
	ConfirmationCode   string    `json:"confirmation_code"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ScheduledAt combines the booking's date and time into a point in time.
func (b *Booking) ScheduledAt() (time.Time, error) {
	return CombineDateTime(b.Date, b.Time)
}

// BusinessContact is revealed to the client once a booking exists.
type BusinessContact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Zone    string `json:"zone"`
}

// BookingDetail is the booking-creation response: the booking itself plus
// the contact details held back from catalog browsing.
type BookingDetail struct {
	Booking            Booking         `json:"booking"`
	Business           BusinessContact `json:"business"`
	CancellationPolicy string          `json:"cancellation_policy"`
}

// Review rates a completed booking. At most one per booking.
type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	ClientID   string    `json:"client_id"`
	BusinessID string    `json:"business_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// CombineDateTime parses a date and a time-of-day into a UTC timestamp.
func CombineDateTime(date, tm string) (time.Time, error) {
	t, err := time.Parse(DateLayout+" "+TimeLayout, date+" "+tm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot timestamp %q %q: %w", date, tm, err)
	}
	return t, nil
}

// ValidSlotKey reports whether date and time are well-formed schedule keys.
func ValidSlotKey(date, tm string) bool {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return false
	}
	_, err := time.Parse(TimeLayout, tm)
	return err == nil
}

// Round2 rounds a money figure to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds a rating to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
