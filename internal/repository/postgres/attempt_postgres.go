package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"grindccat/internal/model"
	"grindccat/internal/repository"
)

// AttemptPostgres is a PostgreSQL implementation of repository.AttemptRepository.
type AttemptPostgres struct {
	db *sql.DB
}

// NewAttemptPostgres creates a new AttemptPostgres repository.
func NewAttemptPostgres(db *sql.DB) *AttemptPostgres {
	return &AttemptPostgres{db: db}
}

var _ repository.AttemptRepository = (*AttemptPostgres)(nil)

// Create inserts an attempt row and returns the stored record.
func (r *AttemptPostgres) Create(ctx context.Context, a *model.Attempt) (*model.Attempt, error) {
	const q = `
		INSERT INTO attempts (
			id, test_attempt_id, username, question_id, question_text, options,
			user_answer, correct_answer, time_spent, is_correct, category, explanation, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, test_attempt_id, username, question_id, question_text, options,
			user_answer, correct_answer, time_spent, is_correct, category, explanation, created_at
	`
	options := a.Options
	if options == nil {
		options = []string{}
	}
	opts, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.TestAttemptID,
		a.Username,
		a.QuestionID,
		a.QuestionText,
		string(opts),
		a.UserAnswer,
		a.CorrectAnswer,
		a.TimeSpent,
		a.IsCorrect,
		a.Category,
		a.Explanation,
		a.CreatedAt,
	)

	var (
		out     model.Attempt
		optsRaw []byte
	)
	if err := row.Scan(
		&out.ID,
		&out.TestAttemptID,
		&out.Username,
		&out.QuestionID,
		&out.QuestionText,
		&optsRaw,
		&out.UserAnswer,
		&out.CorrectAnswer,
		&out.TimeSpent,
		&out.IsCorrect,
		&out.Category,
		&out.Explanation,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(optsRaw, &out.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &out, nil
}
