package domain

import (
	"encoding/json"
	"fmt"
)

// Question is one calibration question as fetched from the question source.
// The index is its ordinal position in the fetched list, assigned at fetch
// time and stable for the lifetime of the attempt. Answer is the ground
// truth; it rides along in the payload so the backend can re-derive scoring
// without trusting client state, but it is never shown before scoring.
type Question struct {
	Question string      `json:"question"`
	Answer   json.Number `json:"answer"`
}

// AnswerSet maps answer field names (lower_{i} / upper_{i}) to canonical
// decimal strings. Values are transmitted as strings to preserve precision
// across the wire. Once built it is never mutated.
type AnswerSet map[string]string

// LowerField returns the answer field name for question i's lower bound.
func LowerField(i int) string { return fmt.Sprintf("lower_%d", i) }

// UpperField returns the answer field name for question i's upper bound.
func UpperField(i int) string { return fmt.Sprintf("upper_%d", i) }

// DetailedResult is one question's post-scoring record: the original guess,
// the ground truth, and the correctness flag.
type DetailedResult struct {
	Question      string      `json:"question"`
	LowerBound    json.Number `json:"lower_bound"`
	UpperBound    json.Number `json:"upper_bound"`
	CorrectAnswer json.Number `json:"correct_answer"`
	Correct       bool        `json:"correct"`
}

// ScoredResult is the scoring backend's response to one submission.
// DetailedResults is ordered exactly like the submitted question list.
type ScoredResult struct {
	Score           float64          `json:"score"`
	DetailedResults []DetailedResult `json:"detailed_results"`
}

// Submission is the request body for the scoring backend: the question list
// as originally fetched plus the user's validated answers.
type Submission struct {
	Questions []Question `json:"questions"`
	Answers   AnswerSet  `json:"answers"`
}

// AuthStatus reports whether the caller holds a live session. Consumed only
// for navigation display; not part of the scoring pipeline.
type AuthStatus struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Username        string `json:"username,omitempty"`
}
