package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"grindccat/internal/model"
	"grindccat/internal/repository"
)

// QuestionPostgres is a PostgreSQL implementation of repository.QuestionRepository.
type QuestionPostgres struct {
	db *sql.DB
}

// NewQuestionPostgres creates a new QuestionPostgres repository.
func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(s rowScanner) (model.Question, error) {
	var (
		q    model.Question
		opts []byte
	)
	if err := s.Scan(
		&q.ID,
		&q.Category,
		&q.Text,
		&opts,
		&q.CorrectAnswer,
		&q.Explanation,
		&q.CreatedAt,
	); err != nil {
		return model.Question{}, err
	}
	if err := json.Unmarshal(opts, &q.Options); err != nil {
		return model.Question{}, fmt.Errorf("decode options of question %s: %w", q.ID, err)
	}
	return q, nil
}

func (r *QuestionPostgres) queryQuestions(ctx context.Context, q string, args ...any) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// RandomByCategory returns up to limit questions of the category ordered by random().
func (r *QuestionPostgres) RandomByCategory(ctx context.Context, category string, limit int) ([]model.Question, error) {
	const q = `
		SELECT id, category, text, options, correct_answer, explanation, created_at
		FROM questions
		WHERE category = $1
		ORDER BY random()
		LIMIT $2
	`
	return r.queryQuestions(ctx, q, category, limit)
}

// RandomUnseenByCategory skips questions that already have an attempt by username.
func (r *QuestionPostgres) RandomUnseenByCategory(ctx context.Context, category, username string, limit int) ([]model.Question, error) {
	const q = `
		SELECT q.id, q.category, q.text, q.options, q.correct_answer, q.explanation, q.created_at
		FROM questions q
		WHERE q.category = $1
		  AND NOT EXISTS (
			SELECT 1 FROM attempts a
			WHERE a.username = $2 AND a.question_id = q.id::text
		  )
		ORDER BY random()
		LIMIT $3
	`
	return r.queryQuestions(ctx, q, category, username, limit)
}

// CountByCategory groups the bank by category.
func (r *QuestionPostgres) CountByCategory(ctx context.Context) (map[string]int, error) {
	const q = `SELECT category, COUNT(*) FROM questions GROUP BY category`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Upsert keys questions by their text; (xmax = 0) is true only for freshly inserted rows.
func (r *QuestionPostgres) Upsert(ctx context.Context, q *model.Question) (bool, error) {
	const stmt = `
		INSERT INTO questions (category, text, options, correct_answer, explanation)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (text) DO UPDATE SET
			category = EXCLUDED.category,
			options = EXCLUDED.options,
			correct_answer = EXCLUDED.correct_answer,
			explanation = EXCLUDED.explanation
		RETURNING id, (xmax = 0) AS inserted
	`
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return false, fmt.Errorf("encode options: %w", err)
	}

	var inserted bool
	if err := r.db.QueryRowContext(ctx, stmt,
		q.Category,
		q.Text,
		string(opts),
		q.CorrectAnswer,
		q.Explanation,
	).Scan(&q.ID, &inserted); err != nil {
		return false, err
	}
	return inserted, nil
}
