// Package server assembles the fiber application: middleware, routes and
// error rendering.
package server

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"fintrack/internal/config"
	"fintrack/internal/domain"
	"fintrack/internal/http/handlers"
	applog "fintrack/internal/log"
)

const accessLogFormat = `{"ts":"${time}","level":"access","req_id":"${locals:requestid}","ip":"${ip}",` +
	`"method":"${method}","path":"${path}","status":${status},"latency":"${latency}"}` + "\n"

// New builds the HTTP app. accessLog receives one JSON line per request; nil means stdout.
func New(cfg config.Config, deps *handlers.Deps, accessLog io.Writer) *fiber.App {
	if accessLog == nil {
		accessLog = os.Stdout
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}

	app := fiber.New(fiber.Config{
		AppName:      "fintrack",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat,
		TimeFormat: time.RFC3339,
		Output:     accessLog,
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Authorization, Content-Type",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Finance API is running"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.DB.PingContext(ctx); err != nil {
				applog.Error(c, "health.db.fail", err, nil)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
			}
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	requireAuth := handlers.RequireAuth(deps.Auth)

	// ---------- Auth (login throttled) ----------
	authG := app.Group("/auth")
	authG.Post("/register", deps.AuthHandler.Register)
	authG.Post("/login", limiter.New(limiter.Config{
		Max:        cfg.LoginRateMax,
		Expiration: cfg.LoginRateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	authG.Get("/me", requireAuth, deps.AuthHandler.Me)
	authG.Post("/logout", requireAuth, deps.AuthHandler.Logout)

	// ---------- Owned data ----------
	// Auth is attached per route; a group-level Use would also match
	// sibling prefixes such as /categoriesXYZ.
	cats := app.Group("/categories")
	cats.Get("/", requireAuth, deps.CategoryHandler.List)
	cats.Post("/", requireAuth, deps.CategoryHandler.Create)
	cats.Get("/:id", requireAuth, deps.CategoryHandler.Get)
	cats.Put("/:id", requireAuth, deps.CategoryHandler.Update)
	cats.Delete("/:id", requireAuth, deps.CategoryHandler.Delete)

	ops := app.Group("/operations")
	ops.Get("/", requireAuth, deps.OperationHandler.List)
	ops.Post("/", requireAuth, deps.OperationHandler.Create)
	ops.Get("/balance/total", requireAuth, deps.OperationHandler.Balance)
	ops.Get("/:id", requireAuth, deps.OperationHandler.Get)
	ops.Put("/:id", requireAuth, deps.OperationHandler.Update)
	ops.Delete("/:id", requireAuth, deps.OperationHandler.Delete)

	// ---------- Admin ----------
	adminOnly := handlers.RequireRole(domain.RoleAdmin)
	admin := app.Group("/admin")
	admin.Get("/users", requireAuth, adminOnly, deps.AdminHandler.ListUsers)
	admin.Put("/users/:id/role", requireAuth, adminOnly, deps.AdminHandler.UpdateRole)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := strings.ToLower(fe.Message)
		if fe.Code >= fiber.StatusInternalServerError {
			msg = "internal server error"
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": msg})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
