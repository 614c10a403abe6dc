package view

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"calibration-quiz-service/internal/domain"
)

func renderQuestions() []domain.Question {
	return []domain.Question{
		{Question: "Population of Iceland?", Answer: json.Number("372000")},
		{Question: "Number of moons of Jupiter?", Answer: json.Number("95")},
	}
}

func renderResult() domain.ScoredResult {
	return domain.ScoredResult{
		Score: 50,
		DetailedResults: []domain.DetailedResult{
			{Question: "Population of Iceland?", LowerBound: "10", UpperBound: "20", CorrectAnswer: "372000", Correct: true},
			{Question: "Number of moons of Jupiter?", LowerBound: "1000000", UpperBound: "3200000000", CorrectAnswer: "95", Correct: false},
		},
	}
}

func TestRenderZipsByIndex(t *testing.T) {
	result, err := Render(renderQuestions(), renderResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.ScoreLine != "Total Score: 50%" {
		t.Fatalf("unexpected score line %q", result.ScoreLine)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0].CardClass != CardCorrect || !result.Rows[0].Correct {
		t.Fatalf("expected row 0 rendered correct, got %+v", result.Rows[0])
	}
	if result.Rows[1].CardClass != CardIncorrect || result.Rows[1].Correct {
		t.Fatalf("expected row 1 rendered incorrect, got %+v", result.Rows[1])
	}
	if result.Rows[1].Index != 1 || result.Rows[1].UpperBound != "3200000000" {
		t.Fatalf("row 1 not matched by ordinal: %+v", result.Rows[1])
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Render(renderQuestions(), renderResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := Render(renderQuestions(), renderResult())
	if err != nil {
		t.Fatalf("render again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same scored result rendered differently")
	}
}

func TestRenderRejectsShapeMismatch(t *testing.T) {
	short := renderResult()
	short.DetailedResults = short.DetailedResults[:1]

	view, err := Render(renderQuestions(), short)
	var mismatch *domain.ResultShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ResultShapeMismatchError, got %v", err)
	}
	if view != nil {
		t.Fatalf("expected no partial rendering, got %+v", view)
	}
	if mismatch.Want != 2 || mismatch.Got != 1 {
		t.Fatalf("unexpected mismatch detail: %+v", mismatch)
	}

	long := renderResult()
	long.DetailedResults = append(long.DetailedResults, long.DetailedResults[0])
	if _, err := Render(renderQuestions(), long); err == nil {
		t.Fatalf("expected surplus results to be rejected, not truncated")
	}
}
