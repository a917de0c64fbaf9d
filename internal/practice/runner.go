// Package practice drives a timed practice test in a terminal: start form,
// countdown, question loop, saving and the results screen.
package practice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"grindccat/internal/logging"
	"grindccat/internal/model"
	"grindccat/internal/session"
)

// API is the part of the quiz API the runner needs.
type API interface {
	FetchQuestions(ctx context.Context, username string, n int) ([]model.Question, error)
	SaveTestResult(ctx context.Context, r model.TestResult) (*model.TestResult, error)
	RecordAttempt(ctx context.Context, username, testAttemptID string, qa model.QuestionAttempt) (*model.Attempt, error)
}

// Config is one run's start-form input. An empty Username is prompted for.
type Config struct {
	Username string
	Settings session.Settings
	// Resume reuses the stored question set when it belongs to Username.
	Resume bool
}

// Runner is not reusable: it consumes its input reader.
type Runner struct {
	api   API
	store *session.Store
	lines <-chan string
	out   io.Writer
	log   *logging.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	sleep func(context.Context, time.Duration) error
}

// NewRunner reads answers line by line from in and writes the UI to out.
func NewRunner(api API, store *session.Store, in io.Reader, out io.Writer, log *logging.Logger) *Runner {
	return &Runner{
		api:   api,
		store: store,
		lines: readLines(in),
		out:   out,
		log:   log.With("practice"),
		now:   time.Now,
		after: time.After,
		sleep: sleepCtx,
	}
}

// readLines feeds lines from r into a channel so reads can race the timer.
// The channel is closed at EOF.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Run plays one full test and returns the result as saved by the server, or
// the local result when saving failed.
func (r *Runner) Run(ctx context.Context, cfg Config) (*model.TestResult, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		var err error
		if username, err = r.promptUsername(ctx); err != nil {
			return nil, err
		}
	}

	questions, err := r.questions(ctx, username, cfg)
	if err != nil {
		return nil, err
	}

	if err := r.countdown(ctx); err != nil {
		return nil, err
	}

	s, err := session.New(username, questions, cfg.Settings.TimePerQuestion, r.now())
	if err != nil {
		return nil, err
	}
	for !s.Done() {
		choice, err := r.ask(ctx, s)
		if err != nil {
			return nil, err
		}
		if _, err := s.Answer(choice, r.now()); err != nil {
			return nil, err
		}
	}

	res := s.Result(r.now())
	saved := r.persist(ctx, res)
	WriteSummary(r.out, saved)

	if err := r.store.Reset(); err != nil {
		r.log.Error("store_reset_failed", err, map[string]any{"path": r.store.Path()})
	}
	return saved, nil
}

func (r *Runner) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (r *Runner) promptUsername(ctx context.Context) (string, error) {
	for {
		r.printf("Enter your name: ")
		name, err := r.readLine(ctx)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
		r.printf("A name is required.\n")
	}
}

// questions resumes the stored set for the same user or draws a new one and
// stores it.
func (r *Runner) questions(ctx context.Context, username string, cfg Config) ([]model.Question, error) {
	if cfg.Resume {
		snap, err := r.store.Load()
		switch {
		case errors.Is(err, session.ErrStoreVersion):
			r.log.Warn("store_version_mismatch", map[string]any{"path": r.store.Path()})
			if err := r.store.Reset(); err != nil {
				r.log.Error("store_reset_failed", err, map[string]any{"path": r.store.Path()})
			}
		case err != nil:
			r.log.Error("store_load_failed", err, map[string]any{"path": r.store.Path()})
		case snap.Username == username && len(snap.Questions) > 0:
			r.printf("Resuming your %d-question test.\n", len(snap.Questions))
			if n := cfg.Settings.Questions; n != len(snap.Questions) {
				r.printf("You asked for %d questions; run with --resume=false to start a new %d-question test.\n", n, n)
			}
			return snap.Questions, nil
		}
	}

	qs, err := r.api.FetchQuestions(ctx, username, cfg.Settings.Questions)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, session.ErrNoQuestions
	}
	if err := r.store.Save(session.Snapshot{Username: username, Questions: qs}); err != nil {
		r.log.Error("store_save_failed", err, map[string]any{"path": r.store.Path()})
	}
	return qs, nil
}

func (r *Runner) countdown(ctx context.Context) error {
	for i := int(session.Countdown / time.Second); i > 0; i-- {
		r.printf("Starting in %d...\n", i)
		if err := r.sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

// ask shows the current question and waits for a valid choice or the
// deadline. Invalid input re-prompts without touching the clock.
func (r *Runner) ask(ctx context.Context, s *session.Session) (int, error) {
	q, _ := s.Current()
	r.printf("\nQuestion %d of %d  [%s]\n%s\n", s.Index()+1, s.Total(), q.Category, q.Text)
	for i, opt := range q.Options {
		r.printf("  %d) %s\n", i+1, opt)
	}

	timeout := r.after(s.Deadline().Sub(r.now()))
	for {
		r.printf("Answer 1-%d, s to skip (%ds left): ", len(q.Options), s.TimeLeft(r.now()))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timeout:
			r.printf("\nTime's up!\n")
			return model.SkippedAnswer, nil
		case line, ok := <-r.lines:
			if !ok {
				return 0, io.EOF
			}
			choice, valid := parseChoice(line, len(q.Options))
			if valid {
				return choice, nil
			}
			r.printf("Please enter a number between 1 and %d, or s.\n", len(q.Options))
		}
	}
}

// parseChoice maps "1".."k" to 0-based indexes and "s" or a blank line to a skip.
func parseChoice(line string, k int) (int, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" || line == "s" {
		return model.SkippedAnswer, true
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > k {
		return 0, false
	}
	return n - 1, true
}

// persist saves the result, then each attempt under the returned ID.
// Failures are logged and never abort the run.
func (r *Runner) persist(ctx context.Context, res model.TestResult) *model.TestResult {
	saved, err := r.api.SaveTestResult(ctx, res)
	if err != nil {
		r.log.Error("save_test_result_failed", err, map[string]any{"username": res.Username})
		return &res
	}
	for i, a := range res.QuestionAttempts {
		if _, err := r.api.RecordAttempt(ctx, res.Username, saved.ID, a); err != nil {
			r.log.Error("record_attempt_failed", err, map[string]any{
				"test_attempt_id": saved.ID,
				"question_id":     a.QuestionID,
				"index":           i,
			})
		}
	}
	if len(saved.QuestionAttempts) == 0 {
		saved.QuestionAttempts = res.QuestionAttempts
	}
	return saved
}

func optionText(a model.QuestionAttempt, i int) string {
	if i < 0 || i >= len(a.Options) {
		return "(skipped)"
	}
	return a.Options[i]
}

// WriteSummary prints the results screen for res: score, timing, the
// per-category breakdown and every question with its answers.
func WriteSummary(w io.Writer, res *model.TestResult) {
	sum := session.Summarize(*res)

	fmt.Fprintf(w, "\n=== Results for %s ===\n", res.Username)
	fmt.Fprintf(w, "Score: %d/%d (%.1f%%)\n", sum.Score, sum.Total, sum.Percent())
	fmt.Fprintf(w, "Total time: %d seconds\n", sum.TimeTaken)
	if sum.Skipped > 0 {
		fmt.Fprintf(w, "Skipped: %d\n", sum.Skipped)
	}
	for _, c := range sum.Categories {
		fmt.Fprintf(w, "%s: %d correct, %d incorrect\n", c.Category, c.Correct, c.Incorrect)
	}
	if res.ID != "" {
		fmt.Fprintf(w, "Result ID: %s\n", res.ID)
	}

	for i, a := range res.QuestionAttempts {
		mark := "✗"
		if a.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(w, "\n%d. %s %s\n", i+1, mark, a.QuestionText)
		fmt.Fprintf(w, "   Your answer: %s\n", optionText(a, a.UserAnswer))
		if !a.IsCorrect {
			fmt.Fprintf(w, "   Correct answer: %s\n", optionText(a, a.CorrectAnswer))
			if a.Explanation != "" {
				fmt.Fprintf(w, "   Explanation: %s\n", a.Explanation)
			}
		}
		fmt.Fprintf(w, "   Time taken: %d seconds\n", a.TimeSpent)
	}
}
