package handler

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"grindccat/docs"
	"grindccat/internal/config"
	"grindccat/internal/http/middleware"
	"grindccat/internal/logging"
	"grindccat/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Questions service.QuestionService
	Attempts  service.AttemptService
	Results   service.ResultService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only parse input, call a service and map its errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, quiz config.QuizConfig, log *logging.Logger) {
	app.Get("/swagger/*", SwaggerUI())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.NoStore())

	api.Get("/config", QuizSettings(quiz))

	api.Post("/questions", FetchQuestions(svc.Questions, log))
	api.Get("/questions/counts", QuestionCounts(svc.Questions, log))

	api.Post("/attempts", RecordAttempt(svc.Attempts, log))

	api.Post("/test-results", SaveTestResult(svc.Results, log))
	api.Get("/test-results/:id", GetTestResult(svc.Results, log))
	api.Get("/test-results/:id/export", ExportTestResult(svc.Results, log))

	api.Get("/leaderboard", Leaderboard(svc.Results, log))
}

// SwaggerUI serves the API docs with host and scheme taken from the request,
// honoring X-Forwarded-Proto behind a proxy.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get(fiber.HeaderXForwardedProto); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}

// HealthCheck godoc
// @Summary      Readiness probe
// @Description  Pings the database.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// quizSettings tells clients which test sizes the server accepts.
type quizSettings struct {
	DefaultQuestions int `json:"defaultQuestions"`
	MaxQuestions     int `json:"maxQuestions"`
	TimePerQuestion  int `json:"timePerQuestion"`
}

// QuizSettings godoc
// @Summary      Test defaults
// @Tags         quiz
// @Produce      json
// @Success      200  {object}  quizSettings
// @Router       /api/config [get]
func QuizSettings(quiz config.QuizConfig) fiber.Handler {
	body := quizSettings{
		DefaultQuestions: quiz.DefaultQuestions,
		MaxQuestions:     quiz.MaxQuestions,
		TimePerQuestion:  quiz.TimePerQuestionSec,
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(body)
	}
}
