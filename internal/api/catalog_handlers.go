package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localbook/localbook/internal/middleware"
)

// ListBusinesses returns public business summaries, optionally filtered by
// category.
func (s *Server) ListBusinesses(c echo.Context) error {
	businesses, err := s.catalog.ListBusinesses(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"businesses": businesses})
}

// ListServices returns a business's active services.
func (s *Server) ListServices(c echo.Context) error {
	services, err := s.catalog.ListServices(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

// ListAvailability returns a business's open slots inside the requested
// date window.
func (s *Server) ListAvailability(c echo.Context) error {
	slots, err := s.catalog.ListAvailability(c.Request().Context(),
		c.Param("id"), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// ListReviews returns a business's reviews.
func (s *Server) ListReviews(c echo.Context) error {
	reviews, err := s.catalog.ListReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

type createServiceRequest struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// CreateService lists a new service for the acting business.
func (s *Server) CreateService(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	svc, err := s.catalog.CreateService(c.Request().Context(),
		actor.BusinessID, req.Name, req.DurationMinutes, req.Price)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"service": svc})
}

// DeactivateService takes one of the acting business's services off the
// catalog.
func (s *Server) DeactivateService(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := s.catalog.DeactivateService(c.Request().Context(), c.Param("id"), actor.BusinessID); err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service deactivated"})
}
