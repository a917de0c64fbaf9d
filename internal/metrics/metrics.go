// Package metrics holds the quiz-level Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts quiz activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	testsCompleted    prometheus.Counter
	questionsAnswered *prometheus.CounterVec
	questionsServed   *prometheus.CounterVec
	testScore         prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		testsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_tests_completed_total",
			Help: "Total number of saved test results.",
		}),
		questionsAnswered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_questions_answered_total",
			Help: "Recorded question attempts by category and outcome.",
		}, []string{"category", "outcome"}),
		questionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_questions_served_total",
			Help: "Questions handed out to test takers, by category and whether they were unseen.",
		}, []string{"category", "unseen"}),
		testScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_test_score_ratio",
			Help:    "Share of correctly answered questions per saved test.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.testsCompleted, m.questionsAnswered, m.questionsServed, m.testScore} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome labels for QuestionAnswered.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeSkipped   = "skipped"
)

// TestCompleted records a saved result with score correct answers out of total.
func (m *Metrics) TestCompleted(score, total int) {
	if m == nil {
		return
	}
	m.testsCompleted.Inc()
	if total > 0 {
		m.testScore.Observe(float64(score) / float64(total))
	}
}

// QuestionAnswered records one persisted attempt.
func (m *Metrics) QuestionAnswered(category, outcome string) {
	if m == nil {
		return
	}
	m.questionsAnswered.WithLabelValues(category, outcome).Inc()
}

// QuestionsServed records n questions handed out for category.
func (m *Metrics) QuestionsServed(category string, unseen bool, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.questionsServed.WithLabelValues(category, strconv.FormatBool(unseen)).Add(float64(n))
}
