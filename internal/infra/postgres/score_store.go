package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"calibration-quiz-service/internal/domain"
)

// ScoreRecord is one persisted quiz attempt for an authenticated user.
// Detailed results are kept as JSONB so history readers see the same shape
// the scoring response used.
type ScoreRecord struct {
	bun.BaseModel `bun:"table:score_history"`

	ID       int64           `bun:"id,pk,autoincrement"`
	Username string          `bun:"username,notnull"`
	Score    float64         `bun:"score,notnull"`
	Details  json.RawMessage `bun:"details,type:jsonb,notnull"`
	Date     time.Time       `bun:"date,nullzero,notnull,default:current_timestamp"`
}

// ScoreStore persists score history rows via bun.
type ScoreStore struct {
	db *bun.DB
}

func NewScoreStore(db *bun.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) RecordScore(ctx context.Context, username string, result domain.ScoredResult) error {
	details, err := json.Marshal(result.DetailedResults)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	record := &ScoreRecord{
		Username: username,
		Score:    result.Score,
		Details:  details,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// History returns a user's most recent attempts, newest first.
func (s *ScoreStore) History(ctx context.Context, username string, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []ScoreRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("username = ?", username).
		Order("date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}
