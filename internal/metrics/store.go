package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ai-dinner-planner/internal/shared"
)

// Statuses recorded with each generation.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// GenerationMetric records metadata for a single model call.
type GenerationMetric struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Status           string
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	status := m.Status
	if status == "" {
		status = StatusOK
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_metrics (model, prompt_tokens, completion_tokens, latency_ms, status, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, status, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// RecordMeta records a metric directly from shared.GenerationMeta.
func (s *Store) RecordMeta(ctx context.Context, meta shared.GenerationMeta, status string) error {
	return s.Record(ctx, GenerationMetric{
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Status:           status,
		Timestamp:        time.Now().UTC(),
	})
}

// DailyUsage represents call and token totals for a single day.
type DailyUsage struct {
	Date            string
	Calls           int
	Errors          int
	TotalPrompt     int
	TotalCompletion int
	AvgLatencyMS    int
}

// GetDailyUsage retrieves usage aggregates for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).UTC()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date(timestamp) AS day,
		        COUNT(*),
		        SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END),
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COALESCE(AVG(latency_ms), 0)
		 FROM generation_metrics
		 WHERE timestamp >= ?
		 GROUP BY date(timestamp)
		 ORDER BY day DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var avgLatency float64
		if err := rows.Scan(&u.Date, &u.Calls, &u.Errors, &u.TotalPrompt, &u.TotalCompletion, &avgLatency); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		u.AvgLatencyMS = int(avgLatency)
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many rows were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC()

	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
