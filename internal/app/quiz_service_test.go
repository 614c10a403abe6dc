package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"calibration-quiz-service/internal/app"
	"calibration-quiz-service/internal/domain"
	"calibration-quiz-service/internal/infra/memory"
)

func questionPool() []domain.Question {
	return []domain.Question{
		{Question: "Height of Mount Everest in meters?", Answer: json.Number("8849")},
		{Question: "Distance to the Moon in km?", Answer: json.Number("384400")},
		{Question: "Mass of an electron in kg?", Answer: json.Number("9.1e-31")},
	}
}

func newTestService(t *testing.T) *app.QuizService {
	t.Helper()
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"default": questionPool(),
	}), 5*time.Minute)
	return app.NewQuizService(repo, nil, "default", 3)
}

func TestQuestionsSamplesFromPool(t *testing.T) {
	service := newTestService(t)
	questions, err := service.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	seen := map[string]bool{}
	for _, q := range questions {
		seen[q.Question] = true
	}
	for _, q := range questionPool() {
		if !seen[q.Question] {
			t.Fatalf("sample missing question %q", q.Question)
		}
	}
}

func TestQuestionsClampsSampleSize(t *testing.T) {
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"default": questionPool(),
	}), 5*time.Minute)
	service := app.NewQuizService(repo, nil, "default", 10)

	questions, err := service.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected sample clamped to pool size 3, got %d", len(questions))
	}
}

func TestScoreCountsContainedIntervals(t *testing.T) {
	service := newTestService(t)
	sub := domain.Submission{
		Questions: questionPool(),
		Answers: domain.AnswerSet{
			"lower_0": "8000", "upper_0": "9000", // contains 8849
			"lower_1": "400000", "upper_1": "500000", // misses 384400
			"lower_2": "1e-31", "upper_2": "1e-30", // contains 9.1e-31
		},
	}
	result, err := service.Score(context.Background(), sub, "")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 67 {
		t.Fatalf("expected score 67, got %v", result.Score)
	}
	if len(result.DetailedResults) != 3 {
		t.Fatalf("expected 3 detailed results, got %d", len(result.DetailedResults))
	}
	wantCorrect := []bool{true, false, true}
	for i, detail := range result.DetailedResults {
		if detail.Correct != wantCorrect[i] {
			t.Fatalf("question %d correct=%v, want %v", i, detail.Correct, wantCorrect[i])
		}
		if detail.Question != questionPool()[i].Question {
			t.Fatalf("detailed results out of order at %d: %q", i, detail.Question)
		}
	}
}

func TestScoreBoundsAreInclusive(t *testing.T) {
	service := newTestService(t)
	sub := domain.Submission{
		Questions: questionPool()[:1],
		Answers:   domain.AnswerSet{"lower_0": "8849", "upper_0": "8849"},
	}
	result, err := service.Score(context.Background(), sub, "")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 100 || !result.DetailedResults[0].Correct {
		t.Fatalf("expected exact-bound interval to count as correct, got %+v", result)
	}
}

func TestScoreRejectsMalformedSubmissions(t *testing.T) {
	service := newTestService(t)
	cases := []struct {
		name string
		sub  domain.Submission
	}{
		{"no questions", domain.Submission{Answers: domain.AnswerSet{}}},
		{"nil answers", domain.Submission{Questions: questionPool()}},
		{"missing bounds", domain.Submission{
			Questions: questionPool()[:1],
			Answers:   domain.AnswerSet{"lower_0": "1"},
		}},
		{"non-numeric bounds", domain.Submission{
			Questions: questionPool()[:1],
			Answers:   domain.AnswerSet{"lower_0": "abc", "upper_0": "2"},
		}},
	}
	for _, tc := range cases {
		_, err := service.Score(context.Background(), tc.sub, "")
		var bad *domain.BadSubmissionError
		if !errors.As(err, &bad) {
			t.Fatalf("%s: expected BadSubmissionError, got %v", tc.name, err)
		}
	}
}

func TestScoreRecordsHistoryForAuthenticatedUsers(t *testing.T) {
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"default": questionPool(),
	}), 5*time.Minute)
	history := &recordingHistory{}
	service := app.NewQuizService(repo, history, "default", 3)

	sub := domain.Submission{
		Questions: questionPool()[:1],
		Answers:   domain.AnswerSet{"lower_0": "0", "upper_0": "10000"},
	}
	if _, err := service.Score(context.Background(), sub, "alice"); err != nil {
		t.Fatalf("score: %v", err)
	}
	if history.username != "alice" || history.calls != 1 {
		t.Fatalf("expected one history record for alice, got %+v", history)
	}

	if _, err := service.Score(context.Background(), sub, ""); err != nil {
		t.Fatalf("score anonymous: %v", err)
	}
	if history.calls != 1 {
		t.Fatalf("anonymous attempts must not be persisted, calls=%d", history.calls)
	}
}

type recordingHistory struct {
	username string
	calls    int
}

func (h *recordingHistory) RecordScore(_ context.Context, username string, _ domain.ScoredResult) error {
	h.username = username
	h.calls++
	return nil
}
