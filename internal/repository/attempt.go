package repository

import (
	"context"

	"grindccat/internal/model"
)

// AttemptRepository persists individual question attempts.
type AttemptRepository interface {
	// Create inserts an attempt row and returns it as stored.
	Create(ctx context.Context, a *model.Attempt) (*model.Attempt, error)
}
