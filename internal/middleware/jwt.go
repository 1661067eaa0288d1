// Package middleware holds the echo middleware gluing auth to handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/localbook/localbook/internal/auth"
	"github.com/localbook/localbook/internal/model"
)

// Context keys set by Authenticate.
const (
	CtxActor = "actor"
)

// Authenticate verifies the bearer token and stores the resulting actor on
// the request context.
func Authenticate(verifier *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			actor, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxActor, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor, or nil outside Authenticate.
func ActorFrom(c echo.Context) *auth.Actor {
	actor, _ := c.Get(CtxActor).(*auth.Actor)
	return actor
}

// RequireClient rejects non-client subjects.
func RequireClient(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(model.RoleClient, next)
}

// RequireBusiness rejects non-business subjects.
func RequireBusiness(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(model.RoleBusiness, next)
}

func requireRole(role string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := ActorFrom(c)
		if actor == nil || actor.Role != role {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return next(c)
	}
}
