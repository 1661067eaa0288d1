// Package api is the thin HTTP transport over the engine: request
// decoding, actor extraction and domain-error translation.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/localbook/localbook/internal/auth"
	"github.com/localbook/localbook/internal/booking"
	"github.com/localbook/localbook/internal/catalog"
	"github.com/localbook/localbook/internal/middleware"
	"github.com/localbook/localbook/internal/model"
)

// Server wires handlers to the domain services.
type Server struct {
	auth    *auth.Service
	catalog *catalog.Catalog
	engine  *booking.Engine
	log     *zap.Logger
	ready   func(ctx context.Context) error
}

// New constructs a Server. ready is polled by the readiness endpoint; nil
// means always ready.
func New(a *auth.Service, cat *catalog.Catalog, eng *booking.Engine, log *zap.Logger, ready func(ctx context.Context) error) *Server {
	return &Server{auth: a, catalog: cat, engine: eng, log: log, ready: ready}
}

// Register mounts all routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if s.ready != nil {
			if err := s.ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public auth routes, rate limited per IP.
	authGroup := e.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup/client", s.SignupClient)
	authGroup.POST("/signup/business", s.SignupBusiness)
	authGroup.POST("/login", s.Login)

	// Public catalog browsing.
	e.GET("/businesses", s.ListBusinesses)
	e.GET("/businesses/:id/services", s.ListServices)
	e.GET("/businesses/:id/availability", s.ListAvailability)
	e.GET("/businesses/:id/reviews", s.ListReviews)

	g := e.Group("", middleware.Authenticate(s.auth))

	// Client operations.
	g.POST("/bookings", s.CreateBooking, middleware.RequireClient)
	g.GET("/bookings", s.ListClientBookings, middleware.RequireClient)
	g.POST("/bookings/:id/cancel", s.CancelBooking, middleware.RequireClient)
	g.POST("/bookings/:id/review", s.AttachReview, middleware.RequireClient)

	// Business operations.
	g.POST("/bookings/:id/confirm", s.ConfirmBooking, middleware.RequireBusiness)
	g.POST("/bookings/:id/reject", s.RejectBooking, middleware.RequireBusiness)
	g.POST("/bookings/:id/complete", s.CompleteBooking, middleware.RequireBusiness)
	g.GET("/business/bookings", s.ListBusinessBookings, middleware.RequireBusiness)
	g.POST("/business/availability", s.UpsertAvailability, middleware.RequireBusiness)
	g.POST("/business/slots/:id/reopen", s.ReopenSlot, middleware.RequireBusiness)
	g.POST("/business/services", s.CreateService, middleware.RequireBusiness)
	g.DELETE("/business/services/:id", s.DeactivateService, middleware.RequireBusiness)
}

// respondErr maps domain errors onto HTTP statuses.
func (s *Server) respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrServiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSlotUnavailable),
		errors.Is(err, model.ErrInvalidState),
		errors.Is(err, model.ErrDuplicateReview),
		errors.Is(err, model.ErrAlreadyCancelled),
		errors.Is(err, model.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, catalog.ErrInvalidDateRange),
		errors.Is(err, catalog.ErrInvalidService):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		s.log.Error("internal error", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
