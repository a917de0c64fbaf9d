package mocks

import (
	"context"

	"grindccat/internal/model"
	"grindccat/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Draw(ctx context.Context, username string, n int) ([]model.Question, error) {
	args := m.Called(ctx, username, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionService) Counts(ctx context.Context) (*model.QuestionCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestionCounts), args.Error(1)
}

type MockAttemptService struct {
	mock.Mock
}

func (m *MockAttemptService) Record(ctx context.Context, username, testAttemptID string, qa model.QuestionAttempt) (*model.Attempt, error) {
	args := m.Called(ctx, username, testAttemptID, qa)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attempt), args.Error(1)
}

type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) Save(ctx context.Context, in service.SaveResultInput) (*model.TestResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestResult), args.Error(1)
}

func (m *MockResultService) Get(ctx context.Context, id string) (*model.TestResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestResult), args.Error(1)
}

func (m *MockResultService) ExportURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockResultService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

var (
	_ service.QuestionService = (*MockQuestionService)(nil)
	_ service.AttemptService  = (*MockAttemptService)(nil)
	_ service.ResultService   = (*MockResultService)(nil)
)
