package session

import (
	"testing"
	"time"

	"grindccat/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "v1", Category: model.CategoryVerbal, Text: "Opposite of ZEALOUS", Options: []string{"Eager", "Apathetic", "Fervent"}, CorrectAnswer: 1, Explanation: "apathetic lacks zeal"},
		{ID: "m1", Category: model.CategoryMath, Text: "108 is 30% of what?", Options: []string{"324", "360", "400"}, CorrectAnswer: 1},
		{ID: "v2", Category: model.CategoryVerbal, Text: "Synonym of TERSE", Options: []string{"Brief", "Long"}, CorrectAnswer: 0},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(" ann ", testQuestions(), DefaultTimePerQuestion, t0)
	require.NoError(t, err)
	return s
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", DefaultSettings(), false},
		{"min", Settings{Questions: 1, TimePerQuestion: 5 * time.Second}, false},
		{"max", Settings{Questions: 50, TimePerQuestion: 60 * time.Second}, false},
		{"zero questions", Settings{Questions: 0, TimePerQuestion: 18 * time.Second}, true},
		{"too many questions", Settings{Questions: 51, TimePerQuestion: 18 * time.Second}, true},
		{"too fast", Settings{Questions: 10, TimePerQuestion: 4 * time.Second}, true},
		{"too slow", Settings{Questions: 10, TimePerQuestion: 61 * time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New("  ", testQuestions(), DefaultTimePerQuestion, t0)
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = New("ann", nil, DefaultTimePerQuestion, t0)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = New("ann", testQuestions(), time.Second, t0)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	s := newSession(t)
	assert.Equal(t, "ann", s.Username())
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, 0, s.Index())
	assert.False(t, s.Done())
	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "v1", q.ID)
}

func TestSession_TimeLeft(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, 18, s.TimeLeft(t0))
	assert.Equal(t, 18, s.TimeLeft(t0.Add(999*time.Millisecond)))
	assert.Equal(t, 17, s.TimeLeft(t0.Add(time.Second)))
	assert.Equal(t, 1, s.TimeLeft(t0.Add(17500*time.Millisecond)))
	assert.Equal(t, 0, s.TimeLeft(t0.Add(18*time.Second)))
	assert.Equal(t, 0, s.TimeLeft(t0.Add(time.Minute)), "never negative")

	assert.Equal(t, t0.Add(18*time.Second), s.Deadline())
	assert.False(t, s.Expired(t0.Add(17999*time.Millisecond)))
	assert.True(t, s.Expired(t0.Add(18*time.Second)))
}

func TestSession_Answer(t *testing.T) {
	s := newSession(t)

	a, err := s.Answer(1, t0.Add(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, model.QuestionAttempt{
		QuestionID:    "v1",
		QuestionText:  "Opposite of ZEALOUS",
		Options:       []string{"Eager", "Apathetic", "Fervent"},
		UserAnswer:    1,
		CorrectAnswer: 1,
		TimeSpent:     5,
		IsCorrect:     true,
		Category:      model.CategoryVerbal,
		Explanation:   "apathetic lacks zeal",
	}, a)
	assert.Equal(t, 1, s.Index())

	// The clock restarts for the next question
	assert.Equal(t, 18, s.TimeLeft(t0.Add(5*time.Second)))
	assert.Equal(t, t0.Add(23*time.Second), s.Deadline())

	a, err = s.Answer(model.SkippedAnswer, t0.Add(8*time.Second))
	require.NoError(t, err)
	assert.True(t, a.Skipped())
	assert.False(t, a.IsCorrect)
	assert.Equal(t, 3, a.TimeSpent)

	// Late answer on the last question counts as skipped with the full limit
	a, err = s.Answer(0, t0.Add(40*time.Second))
	require.NoError(t, err)
	assert.True(t, a.Skipped())
	assert.False(t, a.IsCorrect)
	assert.Equal(t, 18, a.TimeSpent)

	assert.True(t, s.Done())
	_, ok := s.Current()
	assert.False(t, ok)

	_, err = s.Answer(0, t0.Add(41*time.Second))
	assert.ErrorIs(t, err, ErrFinished)
}

func TestSession_Answer_InvalidOption(t *testing.T) {
	s := newSession(t)

	for _, choice := range []int{-2, 3, 99} {
		_, err := s.Answer(choice, t0)
		assert.ErrorIs(t, err, ErrInvalidOption)
	}
	assert.Equal(t, 0, s.Index(), "invalid input does not advance")
	assert.Empty(t, s.Attempts())
	assert.Equal(t, t0.Add(18*time.Second), s.Deadline(), "invalid input does not reset the clock")
}

func TestSession_ScoreIncludesLastAnswer(t *testing.T) {
	s := newSession(t)
	_, _ = s.Answer(0, t0.Add(time.Second))   // wrong
	_, _ = s.Answer(1, t0.Add(2*time.Second)) // right
	_, _ = s.Answer(0, t0.Add(3*time.Second)) // right, last

	assert.Equal(t, 2, s.Score())

	r := s.Result(t0.Add(3*time.Second + 900*time.Millisecond))
	assert.Equal(t, "ann", r.Username)
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, 3, r.TimeTaken)
	assert.Len(t, r.QuestionAttempts, 3)
	assert.Empty(t, r.ID)
}
