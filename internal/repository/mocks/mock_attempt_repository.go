package mocks

import (
	"context"

	"grindccat/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, a *model.Attempt) (*model.Attempt, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attempt), args.Error(1)
}
