// Package client talks to the scoring backend. It is the only place a quiz
// attempt performs network I/O.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"calibration-quiz-service/internal/domain"
)

// Client is the scoring-backend client for one quiz attempt. At most one
// submission may be in flight at a time; callers are expected to disable
// their submit control while a request is pending, not to queue.
type Client struct {
	baseURL      string
	http         *http.Client
	sessionToken string
	inFlight     atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (tests, custom timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionToken attaches a session cookie to every request.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.sessionToken = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuestions retrieves the question list for a fresh attempt.
func (c *Client) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	if err := c.get(ctx, "/questions", &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CheckAuth reports the caller's session status. Navigation-display only.
func (c *Client) CheckAuth(ctx context.Context) (domain.AuthStatus, error) {
	var status domain.AuthStatus
	if err := c.get(ctx, "/check-auth", &status); err != nil {
		return domain.AuthStatus{}, err
	}
	return status, nil
}

// Submit posts the question list plus the answer set and returns the scored
// result. A second call while one is pending is a caller error and fails
// with ErrSubmissionInFlight without touching the network.
func (c *Client) Submit(ctx context.Context, questions []domain.Question, answers domain.AnswerSet) (domain.ScoredResult, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return domain.ScoredResult{}, domain.ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(domain.Submission{Questions: questions, Answers: answers})
	if err != nil {
		return domain.ScoredResult{}, &domain.TransportError{Message: "encode submission", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return domain.ScoredResult{}, &domain.TransportError{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ScoredResult{}, &domain.TransportError{Message: "scoring backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ScoredResult{}, &domain.TransportError{Message: "read response", Err: err}
	}

	var payload struct {
		Error           string                  `json:"error"`
		Score           float64                 `json:"score"`
		DetailedResults []domain.DetailedResult `json:"detailed_results"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.ScoredResult{}, &domain.TransportError{Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	if payload.Error != "" {
		// The submission reached the backend and was rejected there.
		return domain.ScoredResult{}, &domain.ScoringError{Message: payload.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ScoredResult{}, &domain.TransportError{Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	return domain.ScoredResult{Score: payload.Score, DetailedResults: payload.DetailedResults}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &domain.TransportError{Message: "build request", Err: err}
	}
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Message: "scoring backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.TransportError{Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Message: "decode response", Err: err}
	}
	return nil
}

func (c *Client) attachSession(req *http.Request) {
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "session_token", Value: c.sessionToken})
	}
}
