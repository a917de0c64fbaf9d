// Package client is a typed HTTP client for the quiz API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"grindccat/internal/model"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == code
}

// Settings are the server's test defaults and limits.
type Settings struct {
	DefaultQuestions int `json:"defaultQuestions"`
	MaxQuestions     int `json:"maxQuestions"`
	TimePerQuestion  int `json:"timePerQuestion"`
}

// Client talks to one API base URL. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// New returns a Client for baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https: %q", baseURL)
	}

	c := &Client{base: u, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	transport := c.http.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c.http.Transport = otelhttp.NewTransport(transport)
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	ae := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var env struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &env); err == nil && env.Error.Code != "" {
		ae.Code = env.Error.Code
		ae.Message = env.Error.Message
		ae.RequestID = env.RequestID
	}
	if ae.RequestID == "" {
		ae.RequestID = resp.Header.Get("X-Request-ID")
	}
	return ae
}

// Settings fetches the server's test defaults.
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchQuestions draws n questions for username.
func (c *Client) FetchQuestions(ctx context.Context, username string, n int) ([]model.Question, error) {
	in := map[string]any{"username": username, "numQuestions": n}
	var out struct {
		Questions []model.Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/questions", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// QuestionCounts returns the question bank size per category.
func (c *Client) QuestionCounts(ctx context.Context) (*model.QuestionCounts, error) {
	var out model.QuestionCounts
	if err := c.do(ctx, http.MethodGet, "/api/questions/counts", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveTestResult stores a finished test and returns it with its server ID.
func (c *Client) SaveTestResult(ctx context.Context, r model.TestResult) (*model.TestResult, error) {
	attempts := r.QuestionAttempts
	if attempts == nil {
		attempts = []model.QuestionAttempt{}
	}
	in := map[string]any{
		"username":  r.Username,
		"score":     r.Score,
		"timeTaken": r.TimeTaken,
		"attempts":  attempts,
	}
	var out struct {
		Data []model.TestResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/test-results", nil, in, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, errors.New("save test result: empty response")
	}
	return &out.Data[0], nil
}

// RecordAttempt stores one attempt under the test result testAttemptID.
func (c *Client) RecordAttempt(ctx context.Context, username, testAttemptID string, qa model.QuestionAttempt) (*model.Attempt, error) {
	in := struct {
		model.QuestionAttempt
		Username      string `json:"username"`
		TestAttemptID string `json:"test_attempt_id"`
	}{qa, username, testAttemptID}

	var out struct {
		Data []model.Attempt `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/attempts", nil, in, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, errors.New("record attempt: empty response")
	}
	return &out.Data[0], nil
}

// TestResult fetches a saved result.
func (c *Client) TestResult(ctx context.Context, id string) (*model.TestResult, error) {
	var out model.TestResult
	if err := c.do(ctx, http.MethodGet, "/api/test-results/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportURL returns the presigned download link the server redirects to,
// without following it.
func (c *Client) ExportURL(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/test-results/"+url.PathEscape(id)+"/export", nil), nil)
	if err != nil {
		return "", err
	}
	hc := *c.http
	hc.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return "", decodeError(resp)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", errors.New("export: redirect without location")
	}
	return loc, nil
}

// Leaderboard returns up to limit best runs; limit <= 0 uses the server default.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Data []model.LeaderboardEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Health checks the server's readiness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
