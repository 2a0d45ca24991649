package models

import (
	"database/sql"
	"time"
)

// GenerationEvent represents a row in generation_events.
type GenerationEvent struct {
	ID               string         `db:"ID"`         // ULID
	RequestID        string         `db:"REQUEST_ID"` // X-Request-ID of the originating request
	Difficulty       string         `db:"DIFFICULTY"`
	RequestedCount   int            `db:"REQUESTED_COUNT"`
	ReturnedCount    int            `db:"RETURNED_COUNT"`
	Attempts         int            `db:"ATTEMPTS"`
	Outcome          string         `db:"OUTCOME"` // SUCCESS or an error code
	Model            sql.NullString `db:"MODEL"`   // NULL when no completion came back
	PromptTokens     int            `db:"PROMPT_TOKENS"`
	CompletionTokens int            `db:"COMPLETION_TOKENS"`
	LatencyMs        int64          `db:"LATENCY_MS"`
	CreatedAt        time.Time      `db:"CREATED_AT"`
}

// OutcomeCount is one row of a per-outcome aggregate.
type OutcomeCount struct {
	Outcome string `db:"OUTCOME"`
	Count   int    `db:"CNT"`
}
