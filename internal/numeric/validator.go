// Package numeric parses free-form numeric text into canonical
// arbitrary-precision decimals. Quiz answers span many orders of magnitude,
// so float64 is never used on the submission path: values that would
// silently overflow or lose digits there round-trip losslessly here.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"

	"calibration-quiz-service/internal/domain"
)

// Validity is the outcome of classifying a raw field value.
type Validity int

const (
	Invalid Validity = iota
	Valid
)

// Parse converts raw user text into a decimal value. Thousands separators
// are stripped before parsing; scientific notation is accepted. Empty text,
// non-numeric text, and anything that does not denote a finite value are
// rejected with an InvalidNumberError carrying the original text.
func Parse(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, &domain.InvalidNumberError{Raw: text}
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		// Covers garbage text as well as NaN/Inf spellings and exponents
		// too large to represent.
		return decimal.Decimal{}, &domain.InvalidNumberError{Raw: text}
	}
	return value, nil
}

// Canonical returns the wire form of a raw field value: a plain decimal
// string with separators stripped and exponents expanded.
func Canonical(text string) (string, error) {
	value, err := Parse(text)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// Classify is the pure validity query behind per-field markers. It has no
// side effects; rendering a valid/invalid state is the caller's business.
func Classify(text string) Validity {
	if _, err := Parse(text); err != nil {
		return Invalid
	}
	return Valid
}
