package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"grindccat/internal/model"
	"grindccat/internal/repository"
)

// TestResultPostgres is a PostgreSQL implementation of repository.TestResultRepository.
// Attempts of a result are stored inline as a JSONB array.
type TestResultPostgres struct {
	db *sql.DB
}

// NewTestResultPostgres creates a new TestResultPostgres repository.
func NewTestResultPostgres(db *sql.DB) *TestResultPostgres {
	return &TestResultPostgres{db: db}
}

var _ repository.TestResultRepository = (*TestResultPostgres)(nil)

func scanResult(s rowScanner) (*model.TestResult, error) {
	var (
		out model.TestResult
		raw []byte
	)
	if err := s.Scan(
		&out.ID,
		&out.Username,
		&out.Score,
		&out.TimeTaken,
		&raw,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out.QuestionAttempts); err != nil {
		return nil, fmt.Errorf("decode question_attempts of %s: %w", out.ID, err)
	}
	return &out, nil
}

// Create inserts a test result row and returns the stored record.
func (r *TestResultPostgres) Create(ctx context.Context, res *model.TestResult) (*model.TestResult, error) {
	const q = `
		INSERT INTO test_attempts (id, username, score, time_taken, question_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, score, time_taken, question_attempts, created_at
	`
	attempts := res.QuestionAttempts
	if attempts == nil {
		attempts = []model.QuestionAttempt{}
	}
	raw, err := json.Marshal(attempts)
	if err != nil {
		return nil, fmt.Errorf("encode question_attempts: %w", err)
	}

	row := r.db.QueryRowContext(ctx, q,
		res.ID,
		res.Username,
		res.Score,
		res.TimeTaken,
		string(raw),
		res.CreatedAt,
	)
	return scanResult(row)
}

// FindByID fetches a single test result by its ID.
func (r *TestResultPostgres) FindByID(ctx context.Context, id string) (*model.TestResult, error) {
	const q = `
		SELECT id, username, score, time_taken, question_attempts, created_at
		FROM test_attempts
		WHERE id = $1
	`
	return scanResult(r.db.QueryRowContext(ctx, q, id))
}

// Leaderboard picks each username's best run (highest score, then fastest,
// then earliest) and ranks those runs the same way.
func (r *TestResultPostgres) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	const q = `
		SELECT username, score, total, time_taken, created_at
		FROM (
			SELECT DISTINCT ON (username)
				username, score, jsonb_array_length(question_attempts) AS total, time_taken, created_at
			FROM test_attempts
			ORDER BY username, score DESC, time_taken ASC, created_at ASC
		) best
		ORDER BY score DESC, time_taken ASC, created_at ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.LeaderboardEntry, 0)
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.Total, &e.TimeTaken, &e.AchievedAt); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
