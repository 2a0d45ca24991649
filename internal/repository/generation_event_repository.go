package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxGenerationEventRepository implements domain.GenerationEventRepository using sqlx.
type sqlxGenerationEventRepository struct {
	db *sqlx.DB
}

// NewSQLXGenerationEventRepository creates a new instance of sqlxGenerationEventRepository.
func NewSQLXGenerationEventRepository(db *sqlx.DB) domain.GenerationEventRepository {
	return &sqlxGenerationEventRepository{db: db}
}

func fromDomainGenerationEvent(e *domain.GenerationEvent) *models.GenerationEvent {
	if e == nil {
		return nil
	}
	return &models.GenerationEvent{
		ID:               e.ID,
		RequestID:        e.RequestID,
		Difficulty:       string(e.Difficulty),
		RequestedCount:   e.RequestedCount,
		ReturnedCount:    e.ReturnedCount,
		Attempts:         e.Attempts,
		Outcome:          e.Outcome,
		Model:            sql.NullString{String: e.Model, Valid: e.Model != ""},
		PromptTokens:     e.PromptTokens,
		CompletionTokens: e.CompletionTokens,
		LatencyMs:        e.LatencyMs,
		CreatedAt:        e.CreatedAt,
	}
}

// Record inserts one generation event.
func (r *sqlxGenerationEventRepository) Record(ctx context.Context, event *domain.GenerationEvent) error {
	m := fromDomainGenerationEvent(event)
	if m == nil {
		return fmt.Errorf("generation event cannot be nil")
	}

	query := `INSERT INTO generation_events (
		id, request_id, difficulty, requested_count, returned_count, attempts,
		outcome, model, prompt_tokens, completion_tokens, latency_ms, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12
	)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.RequestID, m.Difficulty, m.RequestedCount, m.ReturnedCount, m.Attempts,
		m.Outcome, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMs, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation event %s: %w", m.ID, err)
	}
	return nil
}

// CountByOutcomeSince returns the number of events per outcome created at or after since.
func (r *sqlxGenerationEventRepository) CountByOutcomeSince(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `SELECT outcome AS "OUTCOME", COUNT(*) AS "CNT"
		FROM generation_events
		WHERE created_at >= :1
		GROUP BY outcome`

	var rows []models.OutcomeCount
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("failed to count generation events: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Count
	}
	return counts, nil
}

// Ping checks the database connection.
func (r *sqlxGenerationEventRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
