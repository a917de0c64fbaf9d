package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"grindccat/internal/config"
	"grindccat/internal/logging"
	"grindccat/internal/metrics"
	"grindccat/internal/model"
	"grindccat/internal/repository"
	"grindccat/internal/storage"
)

const defaultLeaderboardLimit = 10

// SaveResultInput is a finished test as the client reports it.
type SaveResultInput struct {
	Username  string
	Score     int
	TimeTaken int
	Attempts  []model.QuestionAttempt
}

// ResultService manages completed tests.
type ResultService interface {
	// Save persists a finished test and archives it to object storage when configured.
	Save(ctx context.Context, in SaveResultInput) (*model.TestResult, error)

	// Get returns a single result by ID.
	Get(ctx context.Context, id string) (*model.TestResult, error)

	// ExportURL returns a time-limited download link for the archived result.
	ExportURL(ctx context.Context, id string) (string, error)

	// Leaderboard returns the best run per username. limit <= 0 means the default.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type resultService struct {
	repo     repository.TestResultRepository
	store    storage.Storage
	expiry   time.Duration
	maxBoard int
	metrics  *metrics.Metrics
	log      *logging.Logger
	now      func() time.Time
}

// NewResultService constructs a ResultService. store and m may be nil; a nil
// store disables archiving and export.
func NewResultService(repo repository.TestResultRepository, store storage.Storage, cfg config.QuizConfig, m *metrics.Metrics, log *logging.Logger) ResultService {
	return &resultService{
		repo:     repo,
		store:    store,
		expiry:   cfg.ExportURLExpiry(),
		maxBoard: cfg.LeaderboardMaxEntries,
		metrics:  m,
		log:      log.With("result_service"),
		now:      time.Now,
	}
}

func (s *resultService) Save(ctx context.Context, in SaveResultInput) (*model.TestResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Score < 0 || in.TimeTaken < 0 {
		return nil, ErrInvalidResult
	}

	res := &model.TestResult{
		ID:               uuid.NewString(),
		Username:         username,
		Score:            in.Score,
		TimeTaken:        in.TimeTaken,
		QuestionAttempts: in.Attempts,
		CreatedAt:        s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("save test result: %w", err)
	}

	if s.store != nil {
		if err := s.archive(ctx, stored); err != nil {
			s.log.Error("result_archive_failed", err, map[string]any{"result_id": stored.ID})
		}
	}

	s.metrics.TestCompleted(stored.Score, len(stored.QuestionAttempts))
	return stored, nil
}

// archive uploads res as results/<id>.json.
func (s *resultService) archive(ctx context.Context, res *model.TestResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.store.Put(ctx, storage.ResultKey(res.ID), bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
		Metadata:    map[string]string{"username": res.Username},
	})
	if err != nil {
		return fmt.Errorf("upload result: %w", err)
	}
	return nil
}

func (s *resultService) Get(ctx context.Context, id string) (*model.TestResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ExportURL re-archives results whose upload failed at save time before
// presigning, so every stored result can be exported.
func (s *resultService) ExportURL(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", ErrExportDisabled
	}
	res, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	key := storage.ResultKey(res.ID)
	if _, err := s.store.Stat(ctx, key); err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			return "", fmt.Errorf("stat archived result: %w", err)
		}
		if err := s.archive(ctx, res); err != nil {
			return "", err
		}
		s.log.Info("result_rearchived", map[string]any{"result_id": res.ID})
	}

	u, err := s.store.PresignGet(ctx, key, s.expiry)
	if err != nil {
		return "", fmt.Errorf("presign result: %w", err)
	}
	return u, nil
}

func (s *resultService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if s.maxBoard > 0 && limit > s.maxBoard {
		limit = s.maxBoard
	}
	return s.repo.Leaderboard(ctx, limit)
}
