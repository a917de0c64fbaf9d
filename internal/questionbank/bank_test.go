package questionbank

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"grindccat/internal/logging"
	"grindccat/internal/model"
	"grindccat/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sample = `
version: 1
questions:
  - category: Verbal
    text: "  Opposite of ZEALOUS  "
    options: [Eager, Apathetic]
    answer: 1
    explanation: lacks zeal
  - category: Math & Logic
    text: "2+2"
    options: ["3", "4", "5"]
    answer: 1
`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sample))

	require.NoError(t, err)
	require.Len(t, b.Questions, 2)

	q := b.Questions[0].Question()
	assert.Equal(t, model.Question{
		Category:      model.CategoryVerbal,
		Text:          "Opposite of ZEALOUS",
		Options:       []string{"Eager", "Apathetic"},
		CorrectAnswer: 1,
		Explanation:   "lacks zeal",
	}, q)
	assert.Empty(t, b.Questions[1].Explanation)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"malformed", "questions: [", "decode question bank"},
		{"wrong version", "version: 2\nquestions: []", "unsupported version 2"},
		{"empty", "version: 1", "no questions"},
		{"blank category", "version: 1\nquestions:\n  - {category: '', text: t, options: [a, b], answer: 0}", "category is empty"},
		{"blank text", "version: 1\nquestions:\n  - {category: Verbal, text: ' ', options: [a, b], answer: 0}", "text is empty"},
		{"one option", "version: 1\nquestions:\n  - {category: Verbal, text: t, options: [a], answer: 0}", "at least 2 options"},
		{"blank option", "version: 1\nquestions:\n  - {category: Verbal, text: t, options: [a, ''], answer: 0}", "option is empty"},
		{"answer out of range", "version: 1\nquestions:\n  - {category: Verbal, text: t, options: [a, b], answer: 2}", "answer 2 out of range"},
		{"negative answer", "version: 1\nquestions:\n  - {category: Verbal, text: t, options: [a, b], answer: -1}", "answer -1 out of range"},
		{"duplicate text", "version: 1\nquestions:\n  - {category: Verbal, text: t, options: [a, b], answer: 0}\n  - {category: Math & Logic, text: ' t', options: [a, b], answer: 1}", "question 2 repeats the text of question 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			if tt.name != "malformed" {
				assert.ErrorIs(t, err, ErrInvalidBank)
			}
		})
	}
}

func TestParse_OtherCategoryKept(t *testing.T) {
	b, err := Parse([]byte("version: 1\nquestions:\n  - {category: Spatial Reasoning, text: t, options: [a, b], answer: 1}"))

	require.NoError(t, err)
	assert.Equal(t, "Spatial Reasoning", b.Questions[0].Question().Category)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sample), 0o600))

	b, err := LoadFile(good)
	require.NoError(t, err)
	assert.Len(t, b.Questions, 2)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: 3\nquestions: []"), 0o600))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, bad)
}

func TestDefault(t *testing.T) {
	b := Default()

	counts := map[string]int{}
	for _, e := range b.Questions {
		counts[e.Category]++
	}
	assert.GreaterOrEqual(t, counts[model.CategoryVerbal], 10)
	assert.GreaterOrEqual(t, counts[model.CategoryMath], 10)
	assert.Equal(t, "Choose the word most nearly OPPOSITE to: LACKADAISICAL", b.Questions[0].Text)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	b, err := Parse([]byte(sample))
	require.NoError(t, err)

	t.Run("counts inserts and updates", func(t *testing.T) {
		repo := new(mocks.MockQuestionRepository)
		repo.On("Upsert", ctx, mock.MatchedBy(func(q *model.Question) bool { return q.Text == "Opposite of ZEALOUS" })).
			Return(true, nil).Once()
		repo.On("Upsert", ctx, mock.MatchedBy(func(q *model.Question) bool { return q.Text == "2+2" })).
			Return(false, nil).Once()
		logs := new(bytes.Buffer)

		st, err := Import(ctx, repo, b, logging.New(logs, nil))

		require.NoError(t, err)
		assert.Equal(t, Stats{Inserted: 1, Updated: 1}, st)
		assert.Contains(t, logs.String(), `"event":"question_bank_imported"`)
		repo.AssertExpectations(t)
	})

	t.Run("stops at first error", func(t *testing.T) {
		repo := new(mocks.MockQuestionRepository)
		repo.On("Upsert", ctx, mock.Anything).Return(true, nil).Once()
		repo.On("Upsert", ctx, mock.Anything).Return(false, errors.New("db down")).Once()

		st, err := Import(ctx, repo, b, logging.Nop())

		assert.EqualError(t, err, "import question 2: db down")
		assert.Equal(t, Stats{Inserted: 1}, st)
	})
}
