package model

import "time"

// Question is one multiple-choice item from the question bank.
// CorrectAnswer is the 0-based index into Options.
type Question struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// QuestionCounts is the number of questions available per drawable category.
type QuestionCounts struct {
	Verbal int `json:"verbal"`
	Math   int `json:"math"`
}
