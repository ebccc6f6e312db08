package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"fintrack/internal/domain"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

const (
	localPrincipal = "principal"
	localToken     = "token"
	localUserID    = "user_id"
)

// RequireAuth resolves the bearer token into a principal or rejects with 401.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			applog.Security(c, "auth.token.missing", nil)
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}
		p, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			var se *services.Error
			if errors.As(err, &se) {
				applog.Security(c, "auth.token.reject", map[string]any{"reason": se.Msg})
			}
			return respond(c, "auth.authenticate", err)
		}
		c.Locals(localPrincipal, p)
		c.Locals(localToken, token)
		c.Locals(localUserID, p.UserID)
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}
		if _, err := services.Authorize(p, required); err != nil {
			applog.Security(c, "access.denied", map[string]any{"required": string(required), "role": string(p.Role)})
			return respond(c, "auth.authorize", err)
		}
		return c.Next()
	}
}

func CurrentPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(localPrincipal).(domain.Principal)
	return p, ok && p.UserID > 0
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
