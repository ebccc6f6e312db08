package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// respond maps a service error to its status and JSON body. Anything
// unclassified is logged and surfaces as a bare 500.
func respond(c *fiber.Ctx, action string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	default:
		applog.Error(c, action+".fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// paramID reads a positive integer :id path parameter.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
