// Package session runs one timed practice test on the client: it tracks the
// current question, derives the countdown from wall-clock time and builds
// the attempts and result that are sent to the API.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"grindccat/internal/model"
)

const (
	MinQuestions     = 1
	MaxQuestions     = 50
	DefaultQuestions = 30

	MinTimePerQuestion     = 5 * time.Second
	MaxTimePerQuestion     = 60 * time.Second
	DefaultTimePerQuestion = 18 * time.Second

	// Countdown is shown between the start form and the first question.
	Countdown = 3 * time.Second
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrNoQuestions      = errors.New("session has no questions")
	ErrInvalidSettings  = errors.New("invalid test settings")
	ErrInvalidOption    = errors.New("option out of range")
	ErrFinished         = errors.New("test already finished")
)

// Settings are the choices on the start form.
type Settings struct {
	Questions       int
	TimePerQuestion time.Duration
}

// DefaultSettings returns 30 questions at 18 seconds each.
func DefaultSettings() Settings {
	return Settings{Questions: DefaultQuestions, TimePerQuestion: DefaultTimePerQuestion}
}

// Validate checks the ranges the start form allows.
func (s Settings) Validate() error {
	if s.Questions < MinQuestions || s.Questions > MaxQuestions {
		return fmt.Errorf("%w: questions must be between %d and %d", ErrInvalidSettings, MinQuestions, MaxQuestions)
	}
	if s.TimePerQuestion < MinTimePerQuestion || s.TimePerQuestion > MaxTimePerQuestion {
		return fmt.Errorf("%w: time per question must be between %s and %s", ErrInvalidSettings, MinTimePerQuestion, MaxTimePerQuestion)
	}
	return nil
}

// Session is an in-progress test. It is not safe for concurrent use.
type Session struct {
	username  string
	questions []model.Question
	attempts  []model.QuestionAttempt
	limit     time.Duration
	current   int

	startedAt         time.Time
	questionStartedAt time.Time
}

// New starts a test at now. The first question's clock starts immediately.
func New(username string, questions []model.Question, perQuestion time.Duration, now time.Time) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if err := (Settings{Questions: MinQuestions, TimePerQuestion: perQuestion}).Validate(); err != nil {
		return nil, err
	}
	return &Session{
		username:          username,
		questions:         questions,
		attempts:          make([]model.QuestionAttempt, 0, len(questions)),
		limit:             perQuestion,
		startedAt:         now,
		questionStartedAt: now,
	}, nil
}

func (s *Session) Username() string                  { return s.username }
func (s *Session) Questions() []model.Question       { return s.questions }
func (s *Session) Attempts() []model.QuestionAttempt { return s.attempts }
func (s *Session) Limit() time.Duration              { return s.limit }
func (s *Session) Index() int                        { return s.current }
func (s *Session) Total() int                        { return len(s.questions) }
func (s *Session) Done() bool                        { return s.current >= len(s.questions) }
func (s *Session) StartedAt() time.Time              { return s.startedAt }

// Current returns the question being answered; ok is false once the test is done.
func (s *Session) Current() (q model.Question, ok bool) {
	if s.Done() {
		return model.Question{}, false
	}
	return s.questions[s.current], true
}

// Deadline is the instant the current question's time runs out.
func (s *Session) Deadline() time.Time {
	return s.questionStartedAt.Add(s.limit)
}

// TimeLeft returns the whole seconds remaining on the current question,
// never below zero. It is recomputed from the question start on every call,
// so a stalled caller cannot drift the clock.
func (s *Session) TimeLeft(now time.Time) int {
	elapsed := int(now.Sub(s.questionStartedAt) / time.Second)
	left := s.limitSeconds() - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the current question's time is up.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Deadline())
}

func (s *Session) limitSeconds() int {
	return int(s.limit / time.Second)
}

// Answer records choice for the current question and moves on. choice is a
// 0-based option index or model.SkippedAnswer. An answer given after the
// deadline is recorded as skipped.
func (s *Session) Answer(choice int, now time.Time) (model.QuestionAttempt, error) {
	q, ok := s.Current()
	if !ok {
		return model.QuestionAttempt{}, ErrFinished
	}
	if choice != model.SkippedAnswer && (choice < 0 || choice >= len(q.Options)) {
		return model.QuestionAttempt{}, fmt.Errorf("%w: %d", ErrInvalidOption, choice)
	}
	if s.Expired(now) {
		choice = model.SkippedAnswer
	}

	a := model.QuestionAttempt{
		QuestionID:    q.ID,
		QuestionText:  q.Text,
		Options:       q.Options,
		UserAnswer:    choice,
		CorrectAnswer: q.CorrectAnswer,
		TimeSpent:     s.limitSeconds() - s.TimeLeft(now),
		IsCorrect:     choice == q.CorrectAnswer,
		Category:      q.Category,
		Explanation:   q.Explanation,
	}
	s.attempts = append(s.attempts, a)
	s.current++
	s.questionStartedAt = now
	return a, nil
}

// Score counts correct attempts so far.
func (s *Session) Score() int {
	n := 0
	for _, a := range s.attempts {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// Result builds the test result to save, with time taken in whole seconds
// since the test started.
func (s *Session) Result(now time.Time) model.TestResult {
	return model.TestResult{
		Username:         s.username,
		Score:            s.Score(),
		TimeTaken:        int(now.Sub(s.startedAt) / time.Second),
		QuestionAttempts: s.attempts,
		CreatedAt:        now.UTC(),
	}
}
