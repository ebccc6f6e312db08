package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fintrack/internal/domain"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type OperationHandler struct {
	Operations *services.OperationService
}

// GET /operations?start_date=&end_date=
func (h *OperationHandler) List(c *fiber.Ctx) error {
	p, _ := CurrentPrincipal(c)
	ops, err := h.Operations.List(c.UserContext(), p, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respond(c, "operations.list", err)
	}
	return c.JSON(ops)
}

// GET /operations/balance/total
func (h *OperationHandler) Balance(c *fiber.Ctx) error {
	p, _ := CurrentPrincipal(c)
	b, err := h.Operations.Balance(c.UserContext(), p, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respond(c, "operations.balance", err)
	}
	return c.JSON(b)
}

func (h *OperationHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, _ := CurrentPrincipal(c)
	op, err := h.Operations.Get(c.UserContext(), p, id)
	if err != nil {
		return respond(c, "operations.get", err)
	}
	return c.JSON(op)
}

func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in domain.OperationInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, _ := CurrentPrincipal(c)
	op, err := h.Operations.Create(c.UserContext(), p, in)
	if err != nil {
		return respond(c, "operations.create", err)
	}
	applog.Info(c, "operations.create", map[string]any{"operation_id": op.ID})
	return c.JSON(op)
}

func (h *OperationHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in domain.OperationInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, _ := CurrentPrincipal(c)
	op, err := h.Operations.Update(c.UserContext(), p, id, in)
	if err != nil {
		return respond(c, "operations.update", err)
	}
	return c.JSON(op)
}

func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, _ := CurrentPrincipal(c)
	if err := h.Operations.Delete(c.UserContext(), p, id); err != nil {
		return respond(c, "operations.delete", err)
	}
	applog.Info(c, "operations.delete", map[string]any{"operation_id": id})
	return c.JSON(fiber.Map{"detail": "Operation deleted"})
}
