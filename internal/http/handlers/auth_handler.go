package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Currency string `json:"currency"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Auth.Register(c.UserContext(), in.Email, in.Password, in.Currency)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"reason": err.Error()})
		return respond(c, "auth.register", err)
	}
	c.Locals(localUserID, u.ID)
	applog.Audit(c, "auth.register.success", map[string]any{"email": u.Email})
	return c.JSON(u)
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	sess, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return respond(c, "auth.login", err)
	}
	c.Locals(localUserID, sess.UserID)
	applog.Audit(c, "auth.login.success", nil)
	return c.JSON(sess)
}

// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, _ := CurrentPrincipal(c)
	return c.JSON(p)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, _ := CurrentPrincipal(c)
	token, _ := c.Locals(localToken).(string)
	if err := h.Auth.Logout(c.UserContext(), p, token); err != nil {
		return respond(c, "auth.logout", err)
	}
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"detail": "Logged out"})
}
