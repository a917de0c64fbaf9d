package repository

import (
	"context"

	"grindccat/internal/model"
)

// QuestionRepository reads the question bank and loads it.
type QuestionRepository interface {
	// RandomByCategory returns up to limit questions of the category in random order.
	RandomByCategory(ctx context.Context, category string, limit int) ([]model.Question, error)

	// RandomUnseenByCategory is RandomByCategory restricted to questions the
	// username has no recorded attempt for.
	RandomUnseenByCategory(ctx context.Context, category, username string, limit int) ([]model.Question, error)

	// CountByCategory returns the number of questions per category.
	CountByCategory(ctx context.Context) (map[string]int, error)

	// Upsert inserts q or updates the question with the same text.
	// It reports whether a new row was inserted and sets q.ID.
	Upsert(ctx context.Context, q *model.Question) (bool, error)
}
