package provenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// querier is the subset of database access the Recorder needs, satisfied by
// poolAdapter (wrapping *pgxpool.Pool) in production and by a plain fake in
// tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (int64, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) Row
	Query(ctx context.Context, sql string, args ...interface{}) (Rows, error)
}

// defaultRetentionDays is how long provenance records are kept by
// CleanupOldRecords before being considered for deletion.
const defaultRetentionDays = 90

// Recorder persists and queries research provenance records. The write
// methods (RecordResearch, RecordFailure) log a failed insert and return
// nothing, so they never fail the caller's request path — provenance
// tracking is an audit concern, not a correctness dependency of the Seeker
// or Augmenter. GetTaskResearch, GetStatistics and CleanupOldRecords return
// their database errors to the caller.
type Recorder struct {
	db             querier
	retentionDays  int
	now            func() time.Time
}

// NewRecorder creates a Recorder backed by db (ordinarily the adapter
// NewPoolAdapter builds around a *pgxpool.Pool).
func NewRecorder(db querier) *Recorder {
	return &Recorder{db: db, retentionDays: defaultRetentionDays, now: time.Now}
}

// WithRetentionDays overrides the default 90-day retention window.
func (r *Recorder) WithRetentionDays(days int) *Recorder {
	if days > 0 {
		r.retentionDays = days
	}
	return r
}

// RecordResearch appends a successful research attempt to the audit trail.
func (r *Recorder) RecordResearch(ctx context.Context, taskID string, queries []string, findingsCount int, confidence float64, duration time.Duration) {
	durationMs := duration.Milliseconds()
	rec := model.ResearchProvenanceRecord{
		ID:            uuid.NewString(),
		TaskID:        taskID,
		Queries:       queries,
		FindingsCount: findingsCount,
		Confidence:    confidence,
		PerformedAt:   r.now(),
		DurationMs:    &durationMs,
		Successful:    true,
	}
	r.insert(ctx, rec)
}

// RecordFailure appends a failed research attempt, preserving the error
// message for later diagnosis.
func (r *Recorder) RecordFailure(ctx context.Context, taskID string, queries []string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	rec := model.ResearchProvenanceRecord{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Queries:     queries,
		PerformedAt: r.now(),
		Successful:  false,
		Error:       &msg,
	}
	r.insert(ctx, rec)
}

func (r *Recorder) insert(ctx context.Context, rec model.ResearchProvenanceRecord) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO research_provenance
			(id, task_id, queries, findings_count, confidence, performed_at, duration_ms, successful, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.TaskID, rec.Queries, rec.FindingsCount, rec.Confidence,
		rec.PerformedAt, rec.DurationMs, rec.Successful, rec.Error,
	)
	if err != nil {
		slog.Error("provenance: failed to record research attempt", "task_id", rec.TaskID, "error", err)
	}
}

// GetTaskResearch returns every provenance record for a given task, most
// recent first.
func (r *Recorder) GetTaskResearch(ctx context.Context, taskID string) ([]model.ResearchProvenanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, queries, findings_count, confidence, performed_at, duration_ms, successful, error
		FROM research_provenance
		WHERE task_id = $1
		ORDER BY performed_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("provenance.GetTaskResearch: %w", err)
	}
	defer rows.Close()

	var records []model.ResearchProvenanceRecord
	for rows.Next() {
		var rec model.ResearchProvenanceRecord
		if err := rows.Scan(&rec.ID, &rec.TaskID, &rec.Queries, &rec.FindingsCount,
			&rec.Confidence, &rec.PerformedAt, &rec.DurationMs, &rec.Successful, &rec.Error); err != nil {
			return nil, fmt.Errorf("provenance.GetTaskResearch scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetStatistics aggregates provenance records whose performed_at falls within
// [start, end].
func (r *Recorder) GetStatistics(ctx context.Context, start, end time.Time) (model.ProvenanceStatistics, error) {
	var stats model.ProvenanceStatistics
	err := r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE successful),
			count(*) FILTER (WHERE NOT successful),
			coalesce(avg(confidence) FILTER (WHERE successful), 0),
			coalesce(avg(duration_ms) FILTER (WHERE duration_ms IS NOT NULL), 0)
		FROM research_provenance
		WHERE performed_at >= $1 AND performed_at <= $2`,
		start, end,
	).Scan(&stats.Total, &stats.Successful, &stats.Failed, &stats.AvgConfidence, &stats.AvgDurationMs)
	if err != nil {
		return stats, fmt.Errorf("provenance.GetStatistics: %w", err)
	}
	stats.RangeStart = &start
	stats.RangeEnd = &end
	return stats, nil
}

// CleanupOldRecords deletes provenance records older than the configured
// retention window (default 90 days) and returns the number of rows removed.
func (r *Recorder) CleanupOldRecords(ctx context.Context) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -r.retentionDays)
	affected, err := r.db.Exec(ctx, `DELETE FROM research_provenance WHERE performed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("provenance.CleanupOldRecords: %w", err)
	}
	return affected, nil
}
