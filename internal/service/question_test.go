package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"grindccat/internal/cache"
	cacheMocks "grindccat/internal/cache/mocks"
	"grindccat/internal/config"
	"grindccat/internal/logging"
	"grindccat/internal/model"
	repoMocks "grindccat/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var quizCfg = config.QuizConfig{MaxQuestions: 50, CountsCacheTTLSec: 300, ExportURLExpirySec: 900, LeaderboardMaxEntries: 100}

func q(id, category string) model.Question {
	return model.Question{ID: id, Category: category, Text: "text " + id, Options: []string{"a", "b"}}
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func newTestQuestionService(repo *repoMocks.MockQuestionRepository, c cache.Cache) *questionService {
	svc := NewQuestionService(repo, c, quizCfg, nil, logging.Nop()).(*questionService)
	svc.shuffle = func([]model.Question) {}
	return svc
}

func TestQuestionService_Draw(t *testing.T) {
	ctx := context.Background()
	verbal, math := model.CategoryVerbal, model.CategoryMath

	tests := []struct {
		name       string
		username   string
		n          int
		setupMocks func(m *repoMocks.MockQuestionRepository)
		wantIDs    []string
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "unseen questions cover both shares",
			username: "ann",
			n:        5,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 3).
					Return([]model.Question{q("v1", verbal), q("v2", verbal), q("v3", verbal)}, nil)
				m.On("RandomUnseenByCategory", mock.Anything, math, "ann", 2).
					Return([]model.Question{q("m1", math), q("m2", math)}, nil)
			},
			wantIDs: []string{"v1", "v2", "v3", "m1", "m2"},
		},
		{
			name:     "tops up with seen questions without duplicates",
			username: "  ann ",
			n:        4,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 2).
					Return([]model.Question{q("v1", verbal), q("v2", verbal)}, nil)
				m.On("RandomUnseenByCategory", mock.Anything, math, "ann", 2).
					Return([]model.Question{q("m1", math)}, nil)
				m.On("RandomByCategory", mock.Anything, math, 2).
					Return([]model.Question{q("m1", math), q("m7", math)}, nil)
			},
			wantIDs: []string{"v1", "v2", "m1", "m7"},
		},
		{
			name:     "single question draws verbal only",
			username: "ann",
			n:        1,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 1).
					Return([]model.Question{q("v1", verbal)}, nil)
			},
			wantIDs: []string{"v1"},
		},
		{
			name:     "small bank returns what it has",
			username: "ann",
			n:        6,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 3).
					Return([]model.Question{}, nil)
				m.On("RandomByCategory", mock.Anything, verbal, 3).
					Return([]model.Question{q("v1", verbal)}, nil)
				m.On("RandomUnseenByCategory", mock.Anything, math, "ann", 3).
					Return([]model.Question{q("m1", math), q("m2", math), q("m3", math)}, nil)
			},
			wantIDs: []string{"v1", "m1", "m2", "m3"},
		},
		{
			name:     "empty category",
			username: "ann",
			n:        2,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 1).
					Return([]model.Question{q("v1", verbal)}, nil).Maybe()
				m.On("RandomUnseenByCategory", mock.Anything, math, "ann", 1).
					Return([]model.Question{}, nil)
				m.On("RandomByCategory", mock.Anything, math, 1).
					Return([]model.Question{}, nil)
			},
			wantErr: ErrNoQuestions,
		},
		{
			name:     "repository error",
			username: "ann",
			n:        1,
			setupMocks: func(m *repoMocks.MockQuestionRepository) {
				m.On("RandomUnseenByCategory", mock.Anything, verbal, "ann", 1).
					Return(nil, errors.New("db down"))
			},
			wantErrMsg: "draw unseen Verbal questions: db down",
		},
		{
			name:     "missing username",
			username: "   ",
			n:        5,
			wantErr:  ErrUsernameRequired,
		},
		{
			name:     "zero questions",
			username: "ann",
			n:        0,
			wantErr:  ErrInvalidQuestionCount,
		},
		{
			name:     "too many questions",
			username: "ann",
			n:        51,
			wantErr:  ErrInvalidQuestionCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockQuestionRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mRepo)
			}
			svc := newTestQuestionService(mRepo, nil)

			got, err := svc.Draw(ctx, tt.username, tt.n)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantIDs, ids(got))
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestQuestionService_Draw_Shuffles(t *testing.T) {
	mRepo := new(repoMocks.MockQuestionRepository)
	mRepo.On("RandomUnseenByCategory", mock.Anything, model.CategoryVerbal, "ann", 1).
		Return([]model.Question{q("v1", model.CategoryVerbal)}, nil)
	mRepo.On("RandomUnseenByCategory", mock.Anything, model.CategoryMath, "ann", 1).
		Return([]model.Question{q("m1", model.CategoryMath)}, nil)

	svc := newTestQuestionService(mRepo, nil)
	svc.shuffle = func(qs []model.Question) { qs[0], qs[1] = qs[1], qs[0] }

	got, err := svc.Draw(context.Background(), "ann", 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "v1"}, ids(got))
}

func TestShuffleQuestions(t *testing.T) {
	qs := []model.Question{q("1", ""), q("2", ""), q("3", ""), q("4", "")}
	shuffleQuestions(qs)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, ids(qs))
}

func TestQuestionService_Counts(t *testing.T) {
	ctx := context.Background()
	counts := map[string]int{model.CategoryVerbal: 3, model.CategoryMath: 2, "Other": 9}

	t.Run("cache hit", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuestionRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, countsCacheKey).Return([]byte(`{"verbal":7,"math":6}`), nil)

		got, err := newTestQuestionService(mRepo, mCache).Counts(ctx)

		require.NoError(t, err)
		assert.Equal(t, &model.QuestionCounts{Verbal: 7, Math: 6}, got)
		mRepo.AssertNotCalled(t, "CountByCategory", mock.Anything)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuestionRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, countsCacheKey).Return(nil, cache.ErrMiss)
		mRepo.On("CountByCategory", ctx).Return(counts, nil)
		mCache.On("Set", ctx, countsCacheKey, []byte(`{"verbal":3,"math":2}`), 300*time.Second).Return(nil)

		got, err := newTestQuestionService(mRepo, mCache).Counts(ctx)

		require.NoError(t, err)
		assert.Equal(t, &model.QuestionCounts{Verbal: 3, Math: 2}, got)
		mCache.AssertExpectations(t)
	})

	t.Run("cache failures fall back to repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuestionRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, countsCacheKey).Return(nil, errors.New("redis down"))
		mRepo.On("CountByCategory", ctx).Return(counts, nil)
		mCache.On("Set", ctx, countsCacheKey, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		got, err := newTestQuestionService(mRepo, mCache).Counts(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, got.Verbal)
	})

	t.Run("no cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuestionRepository)
		mRepo.On("CountByCategory", ctx).Return(map[string]int{}, nil)

		got, err := newTestQuestionService(mRepo, nil).Counts(ctx)

		require.NoError(t, err)
		assert.Equal(t, &model.QuestionCounts{}, got)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockQuestionRepository)
		mRepo.On("CountByCategory", ctx).Return(nil, errors.New("db down"))

		got, err := newTestQuestionService(mRepo, nil).Counts(ctx)

		assert.EqualError(t, err, "count questions: db down")
		assert.Nil(t, got)
	})
}
