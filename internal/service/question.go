package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"grindccat/internal/cache"
	"grindccat/internal/config"
	"grindccat/internal/logging"
	"grindccat/internal/metrics"
	"grindccat/internal/model"
	"grindccat/internal/repository"
)

const countsCacheKey = "question_counts"

// QuestionService draws test questions and reports the bank size.
type QuestionService interface {
	// Draw returns n questions split ceil(n/2) Verbal and the rest Math & Logic,
	// preferring questions username has not attempted, in random order.
	Draw(ctx context.Context, username string, n int) ([]model.Question, error)

	// Counts returns the number of questions per drawable category.
	Counts(ctx context.Context) (*model.QuestionCounts, error)
}

type questionService struct {
	repo      repository.QuestionRepository
	cache     cache.Cache
	countsTTL time.Duration
	max       int
	metrics   *metrics.Metrics
	log       *logging.Logger
	shuffle   func([]model.Question)
}

// NewQuestionService constructs a QuestionService. c and m may be nil.
func NewQuestionService(repo repository.QuestionRepository, c cache.Cache, cfg config.QuizConfig, m *metrics.Metrics, log *logging.Logger) QuestionService {
	return &questionService{
		repo:      repo,
		cache:     c,
		countsTTL: cfg.CountsCacheTTL(),
		max:       cfg.MaxQuestions,
		metrics:   m,
		log:       log.With("question_service"),
		shuffle:   shuffleQuestions,
	}
}

// shuffleQuestions is a Fisher-Yates shuffle in place.
func shuffleQuestions(qs []model.Question) {
	for i := len(qs) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func (s *questionService) Draw(ctx context.Context, username string, n int) ([]model.Question, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if n < 1 || n > s.max {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidQuestionCount, s.max)
	}

	verbal := (n + 1) / 2
	shares := []struct {
		category string
		count    int
	}{
		{model.CategoryVerbal, verbal},
		{model.CategoryMath, n - verbal},
	}

	picked := make([][]model.Question, len(shares))
	g, gctx := errgroup.WithContext(ctx)
	for i, sh := range shares {
		if sh.count == 0 {
			continue
		}
		g.Go(func() error {
			qs, err := s.pick(gctx, sh.category, username, sh.count)
			if err != nil {
				return err
			}
			picked[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Question, 0, n)
	for _, qs := range picked {
		out = append(out, qs...)
	}
	s.shuffle(out)
	return out, nil
}

// pick fetches up to count questions of category, unseen ones first.
func (s *questionService) pick(ctx context.Context, category, username string, count int) ([]model.Question, error) {
	unseen, err := s.repo.RandomUnseenByCategory(ctx, category, username, count)
	if err != nil {
		return nil, fmt.Errorf("draw unseen %s questions: %w", category, err)
	}
	out := unseen
	if len(out) < count {
		more, err := s.repo.RandomByCategory(ctx, category, count)
		if err != nil {
			return nil, fmt.Errorf("draw %s questions: %w", category, err)
		}
		seen := make(map[string]struct{}, len(out))
		for _, q := range out {
			seen[q.ID] = struct{}{}
		}
		for _, q := range more {
			if len(out) == count {
				break
			}
			if _, dup := seen[q.ID]; dup {
				continue
			}
			seen[q.ID] = struct{}{}
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, category)
	}

	s.metrics.QuestionsServed(category, true, len(unseen))
	s.metrics.QuestionsServed(category, false, len(out)-len(unseen))
	return out, nil
}

func (s *questionService) Counts(ctx context.Context) (*model.QuestionCounts, error) {
	if s.cache != nil {
		var cached model.QuestionCounts
		err := cache.GetJSON(ctx, s.cache, countsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Error("cache_get_failed", err, map[string]any{"key": countsCacheKey})
		}
	}

	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	counts := &model.QuestionCounts{
		Verbal: byCategory[model.CategoryVerbal],
		Math:   byCategory[model.CategoryMath],
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, countsCacheKey, counts, s.countsTTL); err != nil {
			s.log.Error("cache_set_failed", err, map[string]any{"key": countsCacheKey})
		}
	}
	return counts, nil
}
