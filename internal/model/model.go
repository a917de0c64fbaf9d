// Package model contains the domain records shared by the API, the
// repositories and the practice client. No business logic lives here.
package model

// Question categories drawn by the practice test.
const (
	CategoryVerbal = "Verbal"
	CategoryMath   = "Math & Logic"
)

// SkippedAnswer marks an attempt where no option was chosen before the timer ran out.
const SkippedAnswer = -1
