package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/api/http/handlers"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/security/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Resumes *handlers.ResumesHandler
	Render  *handlers.RenderHandler
	Chat    *handlers.ChatHandler
	ATS     *handlers.ATSHandler
}

// Middleware is applied to protected routes. Throttle guards the routes that
// call the completion service.
type Middleware struct {
	Auth     fiber.Handler
	Throttle fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, mw Middleware) {
	throttle := mw.Throttle
	if throttle == nil {
		throttle = func(c *fiber.Ctx) error { return c.Next() }
	}

	v1 := app.Group("/api/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	users := v1.Group("/users")
	users.Post("/register", h.Auth.Register)
	users.Post("/login", h.Auth.Login)
	users.Get("/me", mw.Auth, h.Auth.Me)

	rs := v1.Group("/resumes", mw.Auth)
	rs.Post("/", h.Resumes.Create)
	rs.Get("/mine", h.Resumes.Mine)
	rs.Get("/:id", h.Resumes.Get)
	rs.Put("/:id", h.Resumes.Update)
	rs.Delete("/:id", h.Resumes.Delete)
	rs.Get("/:id/markup", h.Render.Markup)
	rs.Get("/:id/pdf", h.Render.PDF)
	rs.Get("/:id/chat", h.Chat.State)
	rs.Post("/:id/chat", throttle, h.Chat.Send)
	rs.Post("/:id/chat/reset", h.Chat.Reset)
	rs.Post("/:id/skills/extract", throttle, h.Chat.ExtractSkills)

	a := v1.Group("/ats", mw.Auth)
	a.Post("/upload", throttle, h.ATS.Upload)
	a.Post("/analyze", throttle, h.ATS.Analyze)
	a.Post("/quick-score", throttle, h.ATS.Quick)
	a.Post("/suggestions", throttle, h.ATS.Suggestions)
	a.Get("/reports", h.ATS.Reports)
}

// AccessLog logs one line per request.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		if uid, ok := c.Locals(jwt.LocalUserID).(string); ok {
			ev = ev.Str("user_id", uid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
		return err
	}
}

// UserKey keys rate limits by account. Anonymous calls get an empty key, which
// the limiter replaces with the client IP.
func UserKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals(jwt.LocalUserID).(string); ok && uid != "" {
		return "user:" + uid
	}
	return ""
}
