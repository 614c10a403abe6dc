package view

import (
	"context"
	"errors"
	"sync"

	"calibration-quiz-service/internal/answers"
	"calibration-quiz-service/internal/domain"
	"calibration-quiz-service/internal/numeric"
)

// State is the attempt lifecycle: Unanswered -> Submitted -> Scored.
// There is no transition back to Unanswered except a full Reset.
type State int

const (
	Unanswered State = iota
	Submitted
	Scored
)

// Backend is the slice of the scoring client an attempt needs.
type Backend interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
	Submit(ctx context.Context, questions []domain.Question, answers domain.AnswerSet) (domain.ScoredResult, error)
}

// Field validity markers, toggled per keystroke by the caller.
const (
	FieldValid   = "is-valid"
	FieldInvalid = "is-invalid"
)

// Attempt is the view controller for one quiz attempt. It owns the question
// list and field values exclusively; nothing here is shared across
// concurrent submissions, and a resubmission or navigation replaces the
// whole state via Reset.
type Attempt struct {
	backend Backend
	notices *Board
	builder *answers.Builder

	mu        sync.Mutex
	state     State
	gen       uint64
	questions []domain.Question
	fields    map[string]string
	result    *ResultView
}

// AttemptOption configures an Attempt.
type AttemptOption func(*Attempt)

// WithBuilder swaps the answer-set builder (e.g., to require ordered bounds).
func WithBuilder(b *answers.Builder) AttemptOption {
	return func(a *Attempt) { a.builder = b }
}

func NewAttempt(backend Backend, notices *Board, opts ...AttemptOption) *Attempt {
	a := &Attempt{
		backend: backend,
		notices: notices,
		builder: answers.NewBuilder(),
		fields:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Begin fetches the question list for this attempt. Indices are assigned by
// position in the fetched list and stay stable until Reset.
func (a *Attempt) Begin(ctx context.Context) error {
	questions, err := a.backend.FetchQuestions(ctx)
	if err != nil {
		a.notices.Notify(NoticeError, "Error fetching questions: "+err.Error())
		return err
	}
	a.mu.Lock()
	a.questions = questions
	a.mu.Unlock()
	return nil
}

// Questions returns the attempt's question list.
func (a *Attempt) Questions() []domain.Question {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.questions
}

// SetField records a field edit. Fields are writable only before a
// submission is in flight; after scoring they are read-only for the rest of
// the attempt.
func (a *Attempt) SetField(name, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case Submitted:
		return domain.ErrSubmissionInFlight
	case Scored:
		return domain.ErrAttemptScored
	}
	a.fields[name] = value
	return nil
}

// FieldClass is the per-keystroke validity marker for a field. Classify is
// pure; this is the one place its result is turned into presentation.
func (a *Attempt) FieldClass(name string) string {
	a.mu.Lock()
	text := a.fields[name]
	a.mu.Unlock()
	if text == "" {
		return ""
	}
	if numeric.Classify(text) == numeric.Valid {
		return FieldValid
	}
	return FieldInvalid
}

// State reports where the attempt is in its lifecycle.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Result returns the rendered view once the attempt is scored.
func (a *Attempt) Result() (*ResultView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result, a.result != nil
}

// Submit validates the form, posts it, and renders the scored result.
// Validation failure never touches the network. Every failure path surfaces
// exactly one notice. A nil view with nil error means the attempt was reset
// while the response was in flight and the result was discarded.
func (a *Attempt) Submit(ctx context.Context) (*ResultView, error) {
	a.mu.Lock()
	switch a.state {
	case Submitted:
		a.mu.Unlock()
		return nil, domain.ErrSubmissionInFlight
	case Scored:
		a.mu.Unlock()
		return nil, domain.ErrAttemptScored
	}

	set, err := a.builder.Build(a.fields, len(a.questions))
	if err != nil {
		a.mu.Unlock()
		a.notices.Notify(NoticeError, err.Error())
		return nil, err
	}
	a.notices.Clear(NoticeError)

	a.state = Submitted
	gen := a.gen
	questions := a.questions
	a.mu.Unlock()

	// The one suspension point: the form stays disabled while the round
	// trip is pending, but the rest of the view (field markers, notice
	// timers) keeps running.
	result, err := a.backend.Submit(ctx, questions, set)

	a.mu.Lock()
	if a.gen != gen {
		// The view this response belonged to is gone.
		a.mu.Unlock()
		return nil, nil
	}
	if err != nil {
		a.state = Unanswered
		a.mu.Unlock()
		a.notices.Notify(NoticeError, submitNoticeText(err))
		return nil, err
	}

	rendered, err := Render(questions, result)
	if err != nil {
		a.state = Unanswered
		a.mu.Unlock()
		a.notices.Notify(NoticeError, err.Error())
		return nil, err
	}
	a.state = Scored
	a.result = rendered
	a.mu.Unlock()

	a.notices.Notify(NoticeInfo, rendered.ScoreLine)
	return rendered, nil
}

// Reset discards the attempt state entirely; a response still in flight for
// the old state is dropped when it arrives.
func (a *Attempt) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.state = Unanswered
	a.questions = nil
	a.fields = make(map[string]string)
	a.result = nil
}

func submitNoticeText(err error) string {
	var scoring *domain.ScoringError
	if errors.As(err, &scoring) {
		return scoring.Message
	}
	return "Error submitting answers: " + err.Error()
}
