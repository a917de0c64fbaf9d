package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"grindccat/internal/logging"
	"grindccat/internal/model"
	repoMocks "grindccat/internal/repository/mocks"
	"grindccat/internal/storage"
	storeMocks "grindccat/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const resultID = "0b8f7c1e-5d0a-4c55-8e8b-2a4f1f6d9c30"

func newTestResultService(repo *repoMocks.MockTestResultRepository, store storage.Storage, log *logging.Logger) *resultService {
	svc := NewResultService(repo, store, quizCfg, nil, log).(*resultService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestResultService_Save(t *testing.T) {
	ctx := context.Background()
	attempts := []model.QuestionAttempt{{QuestionID: "q-1", UserAnswer: 0, CorrectAnswer: 0, IsCorrect: true}}
	in := SaveResultInput{Username: " ann ", Score: 1, TimeTaken: 42, Attempts: attempts}

	t.Run("archives after saving", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mStore := new(storeMocks.MockStorage)

		var saved *model.TestResult
		mRepo.On("Create", ctx, mock.MatchedBy(func(r *model.TestResult) bool {
			return r.ID != "" && r.Username == "ann" && r.Score == 1 && r.TimeTaken == 42
		})).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.TestResult)
		}).Return(&model.TestResult{ID: resultID, Username: "ann", Score: 1, TimeTaken: 42, QuestionAttempts: attempts}, nil)

		mStore.On("Put", ctx, storage.ResultKey(resultID), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.Size > 0 && o.Metadata["username"] == "ann"
		})).Return(storage.ObjectInfo{Key: storage.ResultKey(resultID)}, nil)

		got, err := newTestResultService(mRepo, mStore, logging.Nop()).Save(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, resultID, got.ID)
		require.NotNil(t, saved)
		assert.Equal(t, time.UTC, saved.CreatedAt.Location())
		mStore.AssertExpectations(t)
	})

	t.Run("archive failure is only logged", func(t *testing.T) {
		var logs bytes.Buffer
		mRepo := new(repoMocks.MockTestResultRepository)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Create", ctx, mock.Anything).Return(&model.TestResult{ID: resultID, Username: "ann"}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket gone"))

		got, err := newTestResultService(mRepo, mStore, logging.New(&logs, time.UTC)).Save(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, resultID, got.ID)
		assert.Contains(t, logs.String(), `"event":"result_archive_failed"`)
		assert.Contains(t, logs.String(), "bucket gone")
	})

	t.Run("no storage", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mRepo.On("Create", ctx, mock.Anything).Return(&model.TestResult{ID: resultID}, nil)

		got, err := newTestResultService(mRepo, nil, logging.Nop()).Save(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, resultID, got.ID)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestResultService(new(repoMocks.MockTestResultRepository), nil, logging.Nop())

		_, err := svc.Save(ctx, SaveResultInput{Username: ""})
		assert.ErrorIs(t, err, ErrUsernameRequired)

		_, err = svc.Save(ctx, SaveResultInput{Username: "ann", Score: -1})
		assert.ErrorIs(t, err, ErrInvalidResult)

		_, err = svc.Save(ctx, SaveResultInput{Username: "ann", TimeTaken: -5})
		assert.ErrorIs(t, err, ErrInvalidResult)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))

		got, err := newTestResultService(mRepo, nil, logging.Nop()).Save(ctx, in)

		assert.EqualError(t, err, "save test result: db down")
		assert.Nil(t, got)
	})
}

func TestResultService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(m *repoMocks.MockTestResultRepository)
		wantErr    error
	}{
		{
			name: "found",
			id:   resultID,
			setupMocks: func(m *repoMocks.MockTestResultRepository) {
				m.On("FindByID", ctx, resultID).Return(&model.TestResult{ID: resultID}, nil)
			},
		},
		{
			name: "not found",
			id:   resultID,
			setupMocks: func(m *repoMocks.MockTestResultRepository) {
				m.On("FindByID", ctx, resultID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "malformed id",
			id:      "abc",
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockTestResultRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mRepo)
			}

			got, err := newTestResultService(mRepo, nil, logging.Nop()).Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, resultID, got.ID)
		})
	}
}

func TestResultService_ExportURL(t *testing.T) {
	ctx := context.Background()
	key := storage.ResultKey(resultID)
	stored := &model.TestResult{ID: resultID, Username: "ann"}

	t.Run("disabled without storage", func(t *testing.T) {
		_, err := newTestResultService(new(repoMocks.MockTestResultRepository), nil, logging.Nop()).ExportURL(ctx, resultID)
		assert.ErrorIs(t, err, ErrExportDisabled)
	})

	t.Run("presigns archived result", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("FindByID", ctx, resultID).Return(stored, nil)
		mStore.On("Stat", ctx, key).Return(storage.ObjectInfo{Key: key}, nil)
		mStore.On("PresignGet", ctx, key, 900*time.Second).Return("https://minio/results/x", nil)

		u, err := newTestResultService(mRepo, mStore, logging.Nop()).ExportURL(ctx, resultID)

		require.NoError(t, err)
		assert.Equal(t, "https://minio/results/x", u)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("re-archives missing object", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("FindByID", ctx, resultID).Return(stored, nil)
		mStore.On("Stat", ctx, key).Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
		mStore.On("Put", ctx, key, mock.MatchedBy(func(r io.Reader) bool {
			b, _ := io.ReadAll(r)
			return bytes.Contains(b, []byte(resultID))
		}), mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
		mStore.On("PresignGet", ctx, key, mock.Anything).Return("https://minio/results/x", nil)

		u, err := newTestResultService(mRepo, mStore, logging.Nop()).ExportURL(ctx, resultID)

		require.NoError(t, err)
		assert.NotEmpty(t, u)
		mStore.AssertExpectations(t)
	})

	t.Run("unknown result", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mRepo.On("FindByID", ctx, resultID).Return(nil, sql.ErrNoRows)

		_, err := newTestResultService(mRepo, new(storeMocks.MockStorage), logging.Nop()).ExportURL(ctx, resultID)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stat error", func(t *testing.T) {
		mRepo := new(repoMocks.MockTestResultRepository)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("FindByID", ctx, resultID).Return(stored, nil)
		mStore.On("Stat", ctx, key).Return(storage.ObjectInfo{}, errors.New("timeout"))

		_, err := newTestResultService(mRepo, mStore, logging.Nop()).ExportURL(ctx, resultID)

		assert.EqualError(t, err, "stat archived result: timeout")
	})
}

func TestResultService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, 10},
		{"negative", -3, 10},
		{"explicit", 25, 25},
		{"capped", 500, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockTestResultRepository)
			mRepo.On("Leaderboard", ctx, tt.wantLimit).Return([]model.LeaderboardEntry{{Rank: 1, Username: "ann"}}, nil)

			got, err := newTestResultService(mRepo, nil, logging.Nop()).Leaderboard(ctx, tt.limit)

			require.NoError(t, err)
			assert.Len(t, got, 1)
			mRepo.AssertExpectations(t)
		})
	}
}
