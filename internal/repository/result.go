package repository

import (
	"context"

	"grindccat/internal/model"
)

// TestResultRepository persists completed test sessions.
type TestResultRepository interface {
	// Create inserts a result row and returns it as stored.
	Create(ctx context.Context, r *model.TestResult) (*model.TestResult, error)

	// FindByID returns a result by ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.TestResult, error)

	// Leaderboard returns the best result per username, best first, at most limit rows.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
