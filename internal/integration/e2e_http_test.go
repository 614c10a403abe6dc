package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calibration-quiz-service/internal/app"
	"calibration-quiz-service/internal/client"
	"calibration-quiz-service/internal/domain"
	"calibration-quiz-service/internal/infra/memory"
	transport "calibration-quiz-service/internal/transport/http"
	"calibration-quiz-service/internal/view"
)

// Drives the whole pipeline without docker: view controller -> HTTP client
// -> REST handler -> scoring service, all in-process.
func TestAttemptAgainstRealBackend(t *testing.T) {
	pool := []domain.Question{
		{Question: "Population of Iceland in 1900?", Answer: json.Number("78000")},
		{Question: "Number of stars in the Milky Way?", Answer: json.Number("2e11")},
	}
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		"default": pool,
	}), time.Minute)
	service := app.NewQuizService(repo, nil, "default", 2)
	handler := transport.NewHandler(service, nil)

	mux := http.NewServeMux()
	handler.Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	timer := &manualTimer{}
	board := view.NewBoardWithTimer(timer.after)
	attempt := view.NewAttempt(client.New(server.URL), board)

	if err := attempt.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	questions := attempt.Questions()
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	// The sample order is random; choose bounds by question so exactly the
	// 78000 question is bracketed.
	for i, q := range questions {
		lower, upper := "1,000,000", "3.2e9"
		if q.Answer.String() == "78000" {
			lower, upper = "70,000", "80,000"
		}
		if err := attempt.SetField(domain.LowerField(i), lower); err != nil {
			t.Fatalf("set lower_%d: %v", i, err)
		}
		if err := attempt.SetField(domain.UpperField(i), upper); err != nil {
			t.Fatalf("set upper_%d: %v", i, err)
		}
	}

	result, err := attempt.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.ScoreLine != "Total Score: 50%" {
		t.Fatalf("unexpected score line %q", result.ScoreLine)
	}
	for _, row := range result.Rows {
		wantCorrect := row.Question == "Population of Iceland in 1900?"
		if row.Correct != wantCorrect {
			t.Fatalf("row %d (%s) correct=%v, want %v", row.Index, row.Question, row.Correct, wantCorrect)
		}
		wantClass := view.CardIncorrect
		if wantCorrect {
			wantClass = view.CardCorrect
		}
		if row.CardClass != wantClass {
			t.Fatalf("row %d class %q, want %q", row.Index, row.CardClass, wantClass)
		}
	}
	if attempt.State() != view.Scored {
		t.Fatalf("expected attempt scored")
	}
}

type manualTimer struct {
	callbacks []func()
}

func (m *manualTimer) after(_ time.Duration, fn func()) {
	m.callbacks = append(m.callbacks, fn)
}
