// Package answers assembles validated bound pairs into the wire-ready
// answer set for one quiz attempt.
package answers

import (
	"strings"

	"calibration-quiz-service/internal/domain"
	"calibration-quiz-service/internal/numeric"
)

// Builder turns a snapshot of form fields into a frozen AnswerSet.
// Only answer fields (lower_{i} / upper_{i}) participate; anything else in
// the snapshot is a UI-only annotation and never reaches the wire.
type Builder struct {
	requireOrdered bool
}

// Option configures a Builder.
type Option func(*Builder)

// RequireOrderedBounds enforces lower <= upper per pair. Off by default:
// an inverted interval is simply a wrong answer unless the deployment opts
// into rejecting it up front.
func RequireOrderedBounds() Option {
	return func(b *Builder) { b.requireOrdered = true }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates two bounds per question, in natural field order (question
// 0's lower bound first, then its upper bound, then question 1, ...).
// Any empty required field fails with ErrIncompleteSubmission; the first
// field whose text does not parse fails with an InvalidNumberError naming
// that field. On success the returned set holds exactly 2N canonical
// decimal strings.
func (b *Builder) Build(fields map[string]string, questionCount int) (domain.AnswerSet, error) {
	for i := 0; i < questionCount; i++ {
		for _, name := range []string{domain.LowerField(i), domain.UpperField(i)} {
			if strings.TrimSpace(fields[name]) == "" {
				return nil, domain.ErrIncompleteSubmission
			}
		}
	}

	set := make(domain.AnswerSet, 2*questionCount)
	for i := 0; i < questionCount; i++ {
		lowerName, upperName := domain.LowerField(i), domain.UpperField(i)

		lower, err := numeric.Parse(fields[lowerName])
		if err != nil {
			return nil, &domain.InvalidNumberError{Field: lowerName, Raw: fields[lowerName]}
		}
		upper, err := numeric.Parse(fields[upperName])
		if err != nil {
			return nil, &domain.InvalidNumberError{Field: upperName, Raw: fields[upperName]}
		}
		if b.requireOrdered && lower.GreaterThan(upper) {
			return nil, &domain.InvertedBoundsError{Index: i}
		}
		set[lowerName] = lower.String()
		set[upperName] = upper.String()
	}
	return set, nil
}
