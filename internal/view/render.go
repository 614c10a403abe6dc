package view

import (
	"log"
	"strconv"

	"calibration-quiz-service/internal/domain"
)

// Presentation classes for result rows.
const (
	CardCorrect   = "bg-success text-white"
	CardIncorrect = "bg-danger text-white"
)

// ResultRow is one question's display state after scoring.
type ResultRow struct {
	Index         int
	Question      string
	LowerBound    string
	UpperBound    string
	CorrectAnswer string
	Correct       bool
	CardClass     string
}

// ResultView is the rendered outcome of one scored attempt.
type ResultView struct {
	Score     float64
	ScoreLine string
	Rows      []ResultRow
}

// Render zips detailed results back onto the submitted question list,
// strictly by index. The two sequences must agree in length; a mismatch is
// a backend contract violation and is never repaired by truncating or
// padding. Rendering is deterministic: the same ScoredResult always yields
// the same view.
func Render(questions []domain.Question, result domain.ScoredResult) (*ResultView, error) {
	if len(result.DetailedResults) != len(questions) {
		err := &domain.ResultShapeMismatchError{Want: len(questions), Got: len(result.DetailedResults)}
		// Not fixable by user action; flag the backend.
		log.Printf("backend contract violation: %v", err)
		return nil, err
	}

	rows := make([]ResultRow, 0, len(questions))
	for i, detail := range result.DetailedResults {
		class := CardIncorrect
		if detail.Correct {
			class = CardCorrect
		}
		rows = append(rows, ResultRow{
			Index:         i,
			Question:      detail.Question,
			LowerBound:    detail.LowerBound.String(),
			UpperBound:    detail.UpperBound.String(),
			CorrectAnswer: detail.CorrectAnswer.String(),
			Correct:       detail.Correct,
			CardClass:     class,
		})
	}
	return &ResultView{
		Score:     result.Score,
		ScoreLine: "Total Score: " + strconv.FormatFloat(result.Score, 'f', -1, 64) + "%",
		Rows:      rows,
	}, nil
}
