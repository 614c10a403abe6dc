package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteSubmission is returned when a required answer field is empty.
	ErrIncompleteSubmission = errors.New("please fill out all fields before submitting")
	// ErrSubmissionInFlight is returned when a second submit is attempted while one is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrAttemptScored is returned when the caller mutates an attempt after scoring is final.
	ErrAttemptScored = errors.New("attempt already scored; reset to start over")
	// ErrQuestionSetNotFound indicates the question pool could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
)

// InvalidNumberError reports the first answer field whose text could not be
// parsed as a finite number. It names the offending field, not just "some
// field failed".
type InvalidNumberError struct {
	Field string
	Raw   string
}

func (e *InvalidNumberError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid number: %q", e.Raw)
	}
	return fmt.Sprintf("invalid number in %s: %q", e.Field, e.Raw)
}

// InvertedBoundsError reports lower > upper for one question. The ordering
// rule is optional; builders only raise this when configured to.
type InvertedBoundsError struct {
	Index int
}

func (e *InvertedBoundsError) Error() string {
	return fmt.Sprintf("lower bound exceeds upper bound for question %d", e.Index)
}

// TransportError indicates the scoring backend could not be reached or
// answered without a structured body. Distinct from ScoringError: this is a
// connectivity problem, not a rejected submission.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// ScoringError carries a structured {error} payload from the backend: the
// submission reached the server and was rejected there.
type ScoringError struct {
	Message string
}

func (e *ScoringError) Error() string { return "scoring rejected: " + e.Message }

// ResultShapeMismatchError means detailed_results did not line up with the
// submitted question list. This is a backend contract violation; it is never
// repaired by truncating or padding.
type ResultShapeMismatchError struct {
	Want int
	Got  int
}

func (e *ResultShapeMismatchError) Error() string {
	return fmt.Sprintf("result shape mismatch: submitted %d questions, got %d detailed results", e.Want, e.Got)
}

// BadSubmissionError is the server-side rejection of a malformed submission
// payload. Handlers render it as an {error} body with a 400 status.
type BadSubmissionError struct {
	Message string
}

func (e *BadSubmissionError) Error() string { return e.Message }
