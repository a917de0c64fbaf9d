// Package service implements the quiz use cases on top of the repositories,
// cache and object storage. Handlers map the sentinel errors below to HTTP
// status codes.
package service

import "errors"

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrInvalidQuestionCount = errors.New("invalid question count")
	ErrNoQuestions          = errors.New("no questions available")
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidTestAttemptID = errors.New("test_attempt_id must be a UUID")
	ErrInvalidID            = errors.New("id must be a UUID")
	ErrInvalidResult        = errors.New("score and time taken must not be negative")
	ErrNotFound             = errors.New("test result not found")
	ErrExportDisabled       = errors.New("result export is disabled")
)
