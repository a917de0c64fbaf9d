package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"grindccat/internal/metrics"
	"grindccat/internal/model"
	"grindccat/internal/repository"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

// AttemptService records individual question attempts of a saved test.
type AttemptService interface {
	// Record stores one attempt under the test result testAttemptID.
	Record(ctx context.Context, username, testAttemptID string, qa model.QuestionAttempt) (*model.Attempt, error)
}

type attemptService struct {
	repo    repository.AttemptRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAttemptService constructs an AttemptService. m may be nil.
func NewAttemptService(repo repository.AttemptRepository, m *metrics.Metrics) AttemptService {
	return &attemptService{repo: repo, metrics: m, now: time.Now}
}

func (s *attemptService) Record(ctx context.Context, username, testAttemptID string, qa model.QuestionAttempt) (*model.Attempt, error) {
	username = strings.TrimSpace(username)
	if username == "" || testAttemptID == "" {
		return nil, ErrMissingFields
	}
	if _, err := uuid.Parse(testAttemptID); err != nil {
		return nil, ErrInvalidTestAttemptID
	}

	a := model.NewAttempt(username, testAttemptID, qa)
	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()

	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	s.metrics.QuestionAnswered(stored.Category, outcome(qa))
	return stored, nil
}

func outcome(qa model.QuestionAttempt) string {
	switch {
	case qa.Skipped():
		return metrics.OutcomeSkipped
	case qa.IsCorrect:
		return metrics.OutcomeCorrect
	default:
		return metrics.OutcomeIncorrect
	}
}
