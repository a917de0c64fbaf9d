package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"grindccat/internal/logging"
	"grindccat/internal/model"
	"grindccat/internal/service"
)

type fetchQuestionsRequest struct {
	Username     string `json:"username"`
	NumQuestions *int   `json:"numQuestions"`
}

type questionsResponse struct {
	Questions []model.Question `json:"questions"`
}

// FetchQuestions godoc
// @Summary      Draw a practice test
// @Description  Draws half Verbal and half Math & Logic questions, preferring ones the user has not seen.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        body  body      fetchQuestionsRequest  true  "username and question count"
// @Success      200   {object}  questionsResponse
// @Failure      400   {object}  errorPayload
// @Failure      404   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /api/questions [post]
func FetchQuestions(svc service.QuestionService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req fetchQuestionsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if req.Username == "" || req.NumQuestions == nil {
			return writeError(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", "username and number of questions are required")
		}

		qs, err := svc.Draw(c.UserContext(), req.Username, *req.NumQuestions)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameRequired):
				return writeError(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", "username and number of questions are required")
			case errors.Is(err, service.ErrInvalidQuestionCount):
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUESTION_COUNT", err.Error())
			case errors.Is(err, service.ErrNoQuestions):
				return writeError(c, fiber.StatusNotFound, "NO_QUESTIONS", "could not fetch required number of questions")
			}
			return internalError(c, log, "fetch_questions_failed", "failed to fetch questions", err)
		}
		return c.JSON(questionsResponse{Questions: qs})
	}
}

// QuestionCounts godoc
// @Summary      Question bank size
// @Tags         questions
// @Produce      json
// @Success      200  {object}  model.QuestionCounts
// @Failure      500  {object}  errorPayload
// @Router       /api/questions/counts [get]
func QuestionCounts(svc service.QuestionService, log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := svc.Counts(c.UserContext())
		if err != nil {
			return internalError(c, log, "count_questions_failed", "failed to count questions", err)
		}
		return c.JSON(counts)
	}
}
