package model

import "time"

// QuestionAttempt is one answered or skipped question as the client reports it.
// The question fields are denormalized so results render without the bank.
type QuestionAttempt struct {
	QuestionID    string   `json:"questionId"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	UserAnswer    int      `json:"userAnswer"`
	CorrectAnswer int      `json:"correctAnswer"`
	TimeSpent     int      `json:"timeSpent"`
	IsCorrect     bool     `json:"isCorrect"`
	Category      string   `json:"category"`
	Explanation   string   `json:"explanation"`
}

// Skipped reports whether the attempt timed out without an answer.
func (a QuestionAttempt) Skipped() bool {
	return a.UserAnswer == SkippedAnswer
}

// Attempt is a persisted QuestionAttempt tied to a test result.
type Attempt struct {
	ID            string    `json:"id"`
	TestAttemptID string    `json:"test_attempt_id"`
	Username      string    `json:"username"`
	QuestionID    string    `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options"`
	UserAnswer    int       `json:"user_answer"`
	CorrectAnswer int       `json:"correct_answer"`
	TimeSpent     int       `json:"time_spent"`
	IsCorrect     bool      `json:"is_correct"`
	Category      string    `json:"category"`
	Explanation   string    `json:"explanation"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAttempt copies a client-side attempt into a row for the given test result.
func NewAttempt(username, testAttemptID string, qa QuestionAttempt) *Attempt {
	return &Attempt{
		TestAttemptID: testAttemptID,
		Username:      username,
		QuestionID:    qa.QuestionID,
		QuestionText:  qa.QuestionText,
		Options:       qa.Options,
		UserAnswer:    qa.UserAnswer,
		CorrectAnswer: qa.CorrectAnswer,
		TimeSpent:     qa.TimeSpent,
		IsCorrect:     qa.IsCorrect,
		Category:      qa.Category,
		Explanation:   qa.Explanation,
	}
}
