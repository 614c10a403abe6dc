package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"calibration-quiz-service/internal/domain"
)

// QuestionRepository loads question pools (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) ([]domain.Question, error)
}

// ScoreHistory persists scored attempts for authenticated users.
type ScoreHistory interface {
	RecordScore(ctx context.Context, username string, result domain.ScoredResult) error
}

// QuizService contains the scoring-backend use cases: sampling a question
// list for a new attempt and scoring a submitted answer set.
type QuizService struct {
	questions  QuestionRepository
	history    ScoreHistory
	setID      string
	sampleSize int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuizService builds the service. history may be nil when no persistence
// is configured; sampleSize is clamped to the pool size at fetch time.
func NewQuizService(questions QuestionRepository, history ScoreHistory, setID string, sampleSize int) *QuizService {
	if sampleSize <= 0 {
		sampleSize = 10
	}
	return &QuizService{
		questions:  questions,
		history:    history,
		setID:      setID,
		sampleSize: sampleSize,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions samples a fresh question list for one quiz attempt. Indices are
// ordinal positions in the returned slice, assigned here and stable for the
// attempt.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	pool, err := s.questions.GetQuestionSet(ctx, s.setID)
	if err != nil {
		return nil, err
	}
	n := s.sampleSize
	if n > len(pool) {
		n = len(pool)
	}

	sampled := make([]domain.Question, len(pool))
	copy(sampled, pool)
	s.mu.Lock()
	s.rnd.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	s.mu.Unlock()
	return sampled[:n], nil
}

// Score re-validates the submission the same way the client does (the
// backend never trusts client state) and checks each true answer against
// the guessed interval. The score is the rounded percentage of questions
// whose answer fell inside the interval; detailed results follow the
// submitted question order exactly.
func (s *QuizService) Score(ctx context.Context, sub domain.Submission, username string) (domain.ScoredResult, error) {
	if len(sub.Questions) == 0 || sub.Answers == nil {
		return domain.ScoredResult{}, &domain.BadSubmissionError{Message: "questions or answers missing"}
	}

	correctCount := 0
	details := make([]domain.DetailedResult, 0, len(sub.Questions))
	for i, question := range sub.Questions {
		lowerRaw, lowerOK := sub.Answers[domain.LowerField(i)]
		upperRaw, upperOK := sub.Answers[domain.UpperField(i)]
		if !lowerOK || !upperOK {
			return domain.ScoredResult{}, &domain.BadSubmissionError{Message: fmt.Sprintf("bounds for question %d not provided", i)}
		}
		lower, err := decimal.NewFromString(lowerRaw)
		if err != nil {
			return domain.ScoredResult{}, &domain.BadSubmissionError{Message: fmt.Sprintf("non-numeric bounds provided for question %d", i)}
		}
		upper, err := decimal.NewFromString(upperRaw)
		if err != nil {
			return domain.ScoredResult{}, &domain.BadSubmissionError{Message: fmt.Sprintf("non-numeric bounds provided for question %d", i)}
		}
		answer, err := decimal.NewFromString(question.Answer.String())
		if err != nil {
			return domain.ScoredResult{}, &domain.BadSubmissionError{Message: fmt.Sprintf("question %d has no usable answer", i)}
		}

		correct := lower.LessThanOrEqual(answer) && answer.LessThanOrEqual(upper)
		if correct {
			correctCount++
		}
		details = append(details, domain.DetailedResult{
			Question:      question.Question,
			LowerBound:    jsonNumber(lower),
			UpperBound:    jsonNumber(upper),
			CorrectAnswer: question.Answer,
			Correct:       correct,
		})
	}

	result := domain.ScoredResult{
		Score:           math.Round(float64(correctCount) / float64(len(sub.Questions)) * 100),
		DetailedResults: details,
	}

	if s.history != nil && username != "" {
		// History is best-effort; a storage hiccup must not fail scoring.
		if err := s.history.RecordScore(ctx, username, result); err != nil {
			log.Printf("record score for %s: %v", username, err)
		}
	}
	return result, nil
}

func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
