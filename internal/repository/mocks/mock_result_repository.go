package mocks

import (
	"context"

	"grindccat/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTestResultRepository struct {
	mock.Mock
}

func (m *MockTestResultRepository) Create(ctx context.Context, r *model.TestResult) (*model.TestResult, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestResult), args.Error(1)
}

func (m *MockTestResultRepository) FindByID(ctx context.Context, id string) (*model.TestResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestResult), args.Error(1)
}

func (m *MockTestResultRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}
