package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type AdminHandler struct {
	Admin *services.AdminService
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Admin.ListUsers(c.UserContext())
	if err != nil {
		return respond(c, "admin.users.list", err)
	}
	return c.JSON(users)
}

type roleUpdate struct {
	Role string `json:"role"`
}

// PUT /admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in roleUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	actor, _ := CurrentPrincipal(c)
	u, err := h.Admin.UpdateRole(c.UserContext(), actor, id, in.Role)
	if err != nil {
		applog.Security(c, "admin.users.role.fail", map[string]any{"target": id, "role": in.Role})
		return respond(c, "admin.users.role", err)
	}
	applog.Audit(c, "admin.users.role", map[string]any{"target": id, "role": string(u.Role)})
	return c.JSON(u)
}
