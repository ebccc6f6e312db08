package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// LevelAudit sits between info and warn so audit trails survive an info-level filter.
const LevelAudit = slog.Level(2)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, slog.LevelInfo)
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.MessageKey:
				a.Key = "action"
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelAudit {
					return slog.String("level", "audit")
				}
				a.Value = slog.StringValue(strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
	return slog.New(h)
}

// Setup redirects every subsequent entry to w at the given minimum level.
func Setup(w io.Writer, level string) {
	l := newLogger(w, ParseLevel(level))
	mu.Lock()
	logger = l
	mu.Unlock()
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger exposes the current sink, e.g. for fiber's access log middleware.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func write(level slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	attrs := make([]slog.Attr, 0, 9)
	ctx := context.Background()
	if c != nil {
		ctx = c.UserContext()
		attrs = append(attrs,
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, slog.String("req_id", rid))
		}
		if uid, ok := c.Locals("user_id").(int64); ok && uid != 0 {
			attrs = append(attrs, slog.Int64("user_id", uid))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	if len(fields) > 0 {
		attrs = append(attrs, slog.Any("fields", fields))
	}
	Logger().LogAttrs(ctx, level, action, attrs...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
