package mocks

import (
	"context"

	"grindccat/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) RandomByCategory(ctx context.Context, category string, limit int) ([]model.Question, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) RandomUnseenByCategory(ctx context.Context, category, username string, limit int) ([]model.Question, error) {
	args := m.Called(ctx, category, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockQuestionRepository) Upsert(ctx context.Context, q *model.Question) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}
