package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localbook/localbook/internal/middleware"
	"github.com/localbook/localbook/internal/model"
)

type createBookingRequest struct {
	BusinessID string `json:"business_id"`
	ServiceID  string `json:"service_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// CreateBooking books a slot for the acting client.
func (s *Server) CreateBooking(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var req createBookingRequest
	if err := c.Bind(&req); err != nil || req.BusinessID == "" || req.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "business_id, service_id, date and time are required"})
	}
	if !model.ValidSlotKey(req.Date, req.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD and time HH:MM"})
	}

	detail, err := s.engine.CreateBooking(c.Request().Context(),
		actor.SubjectID, req.BusinessID, req.ServiceID, req.Date, req.Time)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// ListClientBookings returns the acting client's bookings.
func (s *Server) ListClientBookings(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	bookings, err := s.engine.ListClientBookings(c.Request().Context(), actor.SubjectID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// CancelBooking cancels the acting client's booking, applying the late
// cancellation charge when under 24 hours' notice.
func (s *Server) CancelBooking(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	b, err := s.engine.Cancel(c.Request().Context(), c.Param("id"), actor.SubjectID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

type attachReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AttachReview rates a completed booking.
func (s *Server) AttachReview(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var req attachReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	review, err := s.engine.AttachReview(c.Request().Context(),
		c.Param("id"), actor.SubjectID, req.Rating, req.Comment)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": review})
}

// ConfirmBooking confirms a pending booking for the acting business.
func (s *Server) ConfirmBooking(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	b, err := s.engine.Confirm(c.Request().Context(), c.Param("id"), actor.BusinessID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// RejectBooking cancels a booking from the business side and releases its
// slot.
func (s *Server) RejectBooking(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	b, err := s.engine.Reject(c.Request().Context(), c.Param("id"), actor.BusinessID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// CompleteBooking marks a confirmed booking completed after its scheduled
// time.
func (s *Server) CompleteBooking(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	b, err := s.engine.Complete(c.Request().Context(), c.Param("id"), actor.BusinessID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// ListBusinessBookings returns the acting business's bookings.
func (s *Server) ListBusinessBookings(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	bookings, err := s.engine.ListBusinessBookings(c.Request().Context(), actor.BusinessID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

type upsertAvailabilityRequest struct {
	Slots []model.SlotEntry `json:"slots"`
}

// UpsertAvailability bulk-edits the acting business's schedule.
func (s *Server) UpsertAvailability(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var req upsertAvailabilityRequest
	if err := c.Bind(&req); err != nil || len(req.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slots are required"})
	}
	processed, err := s.engine.UpsertSchedule(c.Request().Context(), actor.BusinessID, req.Slots)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"processed": processed})
}

// ReopenSlot releases a slot retained by a late cancellation.
func (s *Server) ReopenSlot(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := s.engine.ReopenSlot(c.Request().Context(), c.Param("id"), actor.BusinessID); err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "slot reopened"})
}
