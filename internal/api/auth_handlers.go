package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localbook/localbook/internal/auth"
)

type signupClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupClient registers a client account.
func (s *Server) SignupClient(c echo.Context) error {
	var req signupClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	u, token, err := s.auth.SignupClient(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u, "token": token})
}

type signupBusinessRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	BusinessName   string  `json:"business_name"`
	Category       string  `json:"category"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	Zone           string  `json:"zone"`
	CommissionRate float64 `json:"commission_rate"`
}

// SignupBusiness registers a business and its owning account.
func (s *Server) SignupBusiness(c echo.Context) error {
	var req signupBusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	u, token, err := s.auth.SignupBusiness(c.Request().Context(), auth.BusinessSignup{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		BusinessName:   req.BusinessName,
		Category:       req.Category,
		Address:        req.Address,
		Phone:          req.Phone,
		Zone:           req.Zone,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u, "token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	u, token, err := s.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "token": token})
}
