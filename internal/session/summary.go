package session

import "grindccat/internal/model"

// CategoryBreakdown is the correct/incorrect split for one category.
// Skipped questions count as incorrect.
type CategoryBreakdown struct {
	Category  string
	Correct   int
	Incorrect int
}

// Summary is what the results screen shows.
type Summary struct {
	Score      int
	Total      int
	Skipped    int
	TimeTaken  int
	Categories []CategoryBreakdown
}

// Percent returns the score as a percentage of total, 0 for an empty test.
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) * 100 / float64(s.Total)
}

// Summarize aggregates a result. Categories appear in the order they were
// first answered.
func Summarize(r model.TestResult) Summary {
	sum := Summary{
		Score:     r.Score,
		Total:     len(r.QuestionAttempts),
		TimeTaken: r.TimeTaken,
	}

	idx := map[string]int{}
	for _, a := range r.QuestionAttempts {
		i, ok := idx[a.Category]
		if !ok {
			i = len(sum.Categories)
			idx[a.Category] = i
			sum.Categories = append(sum.Categories, CategoryBreakdown{Category: a.Category})
		}
		if a.IsCorrect {
			sum.Categories[i].Correct++
		} else {
			sum.Categories[i].Incorrect++
		}
		if a.Skipped() {
			sum.Skipped++
		}
	}
	return sum
}
