package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fintrack/internal/domain"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

// GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	p, _ := CurrentPrincipal(c)
	cats, err := h.Categories.List(c.UserContext(), p)
	if err != nil {
		return respond(c, "categories.list", err)
	}
	return c.JSON(cats)
}

// GET /categories/:id
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, _ := CurrentPrincipal(c)
	cat, err := h.Categories.Get(c.UserContext(), p, id)
	if err != nil {
		return respond(c, "categories.get", err)
	}
	return c.JSON(cat)
}

// POST /categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in domain.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, _ := CurrentPrincipal(c)
	cat, err := h.Categories.Create(c.UserContext(), p, in)
	if err != nil {
		return respond(c, "categories.create", err)
	}
	applog.Info(c, "categories.create", map[string]any{"category_id": cat.ID})
	return c.JSON(cat)
}

// PUT /categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in domain.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, _ := CurrentPrincipal(c)
	cat, err := h.Categories.Update(c.UserContext(), p, id, in)
	if err != nil {
		return respond(c, "categories.update", err)
	}
	return c.JSON(cat)
}

// DELETE /categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, _ := CurrentPrincipal(c)
	if err := h.Categories.Delete(c.UserContext(), p, id); err != nil {
		return respond(c, "categories.delete", err)
	}
	applog.Info(c, "categories.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"detail": "Category deleted"})
}
