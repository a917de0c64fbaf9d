package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"grindccat/internal/logging"
	"grindccat/internal/model"
	"grindccat/internal/service"
)

// recordAttemptRequest is a QuestionAttempt plus the test it belongs to.
type recordAttemptRequest struct {
	model.QuestionAttempt
	Username      string `json:"username"`
	TestAttemptID string `json:"test_attempt_id"`
}

type saveResultRequest struct {
	Username  string                  `json:"username"`
	Score     int                     `json:"score"`
	TimeTaken int                     `json:"timeTaken"`
	Attempts  []model.QuestionAttempt `json:"attempts"`
}

// dataResponse wraps inserted rows the way clients read them back.
type dataResponse[T any] struct {
	Data []T `json:"data"`
}

// RecordAttempt godoc
// @Summary      Record one question attempt
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        body  body      recordAttemptRequest  true  "attempt"
// @Success      201   {object}  dataResponse[model.Attempt]
// @Failure      400   {object}  errorPayload
// @Failure      404   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /api/attempts [post]
func RecordAttempt(svc service.AttemptService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recordAttemptRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		row, err := svc.Record(c.UserContext(), req.Username, req.TestAttemptID, req.QuestionAttempt)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingFields):
				return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "missing required fields")
			case errors.Is(err, service.ErrInvalidTestAttemptID):
				return writeError(c, fiber.StatusBadRequest, "INVALID_TEST_ATTEMPT_ID", "test_attempt_id must be a UUID")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "test result not found")
			}
			return internalError(c, log, "save_attempt_failed", "failed to save attempt", err)
		}
		return c.Status(fiber.StatusCreated).JSON(dataResponse[model.Attempt]{Data: []model.Attempt{*row}})
	}
}

// SaveTestResult godoc
// @Summary      Save a finished test
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        body  body      saveResultRequest  true  "result"
// @Success      201   {object}  dataResponse[model.TestResult]
// @Failure      400   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /api/test-results [post]
func SaveTestResult(svc service.ResultService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveResultRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		res, err := svc.Save(c.UserContext(), service.SaveResultInput{
			Username:  req.Username,
			Score:     req.Score,
			TimeTaken: req.TimeTaken,
			Attempts:  req.Attempts,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameRequired):
				return writeError(c, fiber.StatusBadRequest, "MISSING_USERNAME", "missing username")
			case errors.Is(err, service.ErrInvalidResult):
				return writeError(c, fiber.StatusBadRequest, "INVALID_RESULT", err.Error())
			}
			return internalError(c, log, "save_test_result_failed", "failed to save test results", err)
		}
		return c.Status(fiber.StatusCreated).JSON(dataResponse[model.TestResult]{Data: []model.TestResult{*res}})
	}
}

// resultError maps lookup errors shared by the :id routes.
func resultError(c *fiber.Ctx, log *logging.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "test result not found")
	case errors.Is(err, service.ErrExportDisabled):
		return writeError(c, fiber.StatusNotImplemented, "EXPORT_DISABLED", "result export is not configured")
	}
	return internalError(c, log, event, "internal server error", err)
}

// GetTestResult godoc
// @Summary      Fetch a saved test
// @Tags         results
// @Produce      json
// @Param        id   path      string  true  "result ID"
// @Success      200  {object}  model.TestResult
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/test-results/{id} [get]
func GetTestResult(svc service.ResultService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return resultError(c, log, "get_test_result_failed", err)
		}
		return c.JSON(res)
	}
}

// ExportTestResult godoc
// @Summary      Download an archived test
// @Description  Redirects to a time-limited object storage link.
// @Tags         results
// @Param        id   path  string  true  "result ID"
// @Success      302
// @Failure      404  {object}  errorPayload
// @Failure      501  {object}  errorPayload
// @Router       /api/test-results/{id}/export [get]
func ExportTestResult(svc service.ResultService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.ExportURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return resultError(c, log, "export_test_result_failed", err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// Leaderboard godoc
// @Summary      Best run per user
// @Tags         results
// @Produce      json
// @Param        limit  query     int  false  "max entries (default 10)"
// @Success      200    {object}  dataResponse[model.LeaderboardEntry]
// @Failure      400    {object}  errorPayload
// @Router       /api/leaderboard [get]
func Leaderboard(svc service.ResultService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
			limit = n
		}

		entries, err := svc.Leaderboard(c.UserContext(), limit)
		if err != nil {
			return internalError(c, log, "leaderboard_failed", "internal server error", err)
		}
		return c.JSON(dataResponse[model.LeaderboardEntry]{Data: entries})
	}
}
