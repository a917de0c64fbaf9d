package model

import "time"

// TestResult is a completed test session: who took it, the ordered attempts,
// the aggregate score and the total time in seconds.
type TestResult struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	Score            int               `json:"score"`
	TimeTaken        int               `json:"time_taken"`
	QuestionAttempts []QuestionAttempt `json:"question_attempts"`
	CreatedAt        time.Time         `json:"created_at"`
}

// LeaderboardEntry is the best run of one username.
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	TimeTaken  int       `json:"time_taken"`
	AchievedAt time.Time `json:"achieved_at"`
}
