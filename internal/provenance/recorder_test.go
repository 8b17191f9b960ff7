package provenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// fakeRow and fakeRows implement Row/Rows directly against an in-memory
// slice of provenance records, so the Recorder can be tested without a live
// Postgres instance.
type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (f *fakeRow) Scan(dest ...interface{}) error { return f.scan(dest...) }

type fakeRows struct {
	records []model.ResearchProvenanceRecord
	idx     int
}

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.records) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	rec := f.records[f.idx-1]
	*(dest[0].(*string)) = rec.ID
	*(dest[1].(*string)) = rec.TaskID
	*(dest[2].(*[]string)) = rec.Queries
	*(dest[3].(*int)) = rec.FindingsCount
	*(dest[4].(*float64)) = rec.Confidence
	*(dest[5].(*time.Time)) = rec.PerformedAt
	*(dest[6].(**int64)) = rec.DurationMs
	*(dest[7].(*bool)) = rec.Successful
	*(dest[8].(**string)) = rec.Error
	return nil
}

func (f *fakeRows) Err() error { return nil }
func (f *fakeRows) Close()     {}

type fakeDB struct {
	inserted     []model.ResearchProvenanceRecord
	execErr      error
	queryRowFunc func(sql string, args ...interface{}) Row
	queryFunc    func(sql string, args ...interface{}) (Rows, error)
	deleteCount  int64
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	if f.execErr != nil {
		return 0, f.execErr
	}
	if len(args) >= 9 {
		rec := model.ResearchProvenanceRecord{
			ID:            args[0].(string),
			TaskID:        args[1].(string),
			Queries:       args[2].([]string),
			FindingsCount: args[3].(int),
			Confidence:    args[4].(float64),
			PerformedAt:   args[5].(time.Time),
			DurationMs:    args[6].(*int64),
			Successful:    args[7].(bool),
			Error:         args[8].(*string),
		}
		f.inserted = append(f.inserted, rec)
		return 1, nil
	}
	return f.deleteCount, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) Row {
	if f.queryRowFunc != nil {
		return f.queryRowFunc(sql, args...)
	}
	return &fakeRow{scan: func(dest ...interface{}) error { return nil }}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (Rows, error) {
	if f.queryFunc != nil {
		return f.queryFunc(sql, args...)
	}
	return &fakeRows{}, nil
}

func TestRecordResearch_InsertsSuccessfulRecord(t *testing.T) {
	db := &fakeDB{}
	r := NewRecorder(db)
	r.now = func() time.Time { return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) }

	r.RecordResearch(context.Background(), "task-1", []string{"q1", "q2"}, 2, 0.75, 120*time.Millisecond)

	if len(db.inserted) != 1 {
		t.Fatalf("expected 1 inserted record, got %d", len(db.inserted))
	}
	rec := db.inserted[0]
	if !rec.Successful || rec.TaskID != "task-1" || rec.FindingsCount != 2 || rec.Confidence != 0.75 {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec.DurationMs == nil || *rec.DurationMs != 120 {
		t.Fatalf("expected duration_ms=120, got %#v", rec.DurationMs)
	}
}

func TestRecordFailure_InsertsFailedRecordWithError(t *testing.T) {
	db := &fakeDB{}
	r := NewRecorder(db)

	r.RecordFailure(context.Background(), "task-2", []string{"q1"}, errors.New("boom"))

	if len(db.inserted) != 1 {
		t.Fatalf("expected 1 inserted record, got %d", len(db.inserted))
	}
	rec := db.inserted[0]
	if rec.Successful {
		t.Fatalf("expected successful=false")
	}
	if rec.Error == nil || *rec.Error != "boom" {
		t.Fatalf("expected error message 'boom', got %#v", rec.Error)
	}
}

func TestRecordResearch_ExecFailureIsSwallowed(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection refused")}
	r := NewRecorder(db)

	// Must not panic or otherwise surface the error to the caller.
	r.RecordResearch(context.Background(), "task-3", []string{"q1"}, 1, 0.5, time.Second)
}

func TestGetTaskResearch_ReturnsScannedRecords(t *testing.T) {
	want := []model.ResearchProvenanceRecord{
		{ID: "r1", TaskID: "task-4", Queries: []string{"q1"}, FindingsCount: 1, Confidence: 0.9, PerformedAt: time.Now(), Successful: true},
	}
	db := &fakeDB{
		queryFunc: func(sql string, args ...interface{}) (Rows, error) {
			return &fakeRows{records: want}, nil
		},
	}
	r := NewRecorder(db)

	got, err := r.GetTaskResearch(context.Background(), "task-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected records: %#v", got)
	}
}

func TestGetStatistics_SetsRangeAndAggregates(t *testing.T) {
	db := &fakeDB{
		queryRowFunc: func(sql string, args ...interface{}) Row {
			return &fakeRow{scan: func(dest ...interface{}) error {
				*(dest[0].(*int)) = 10
				*(dest[1].(*int)) = 8
				*(dest[2].(*int)) = 2
				*(dest[3].(*float64)) = 0.72
				*(dest[4].(*float64)) = 340.5
				return nil
			}}
		},
	}
	r := NewRecorder(db)
	start := time.Now().Add(-24 * time.Hour)
	end := time.Now()

	stats, err := r.GetStatistics(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 10 || stats.Successful != 8 || stats.Failed != 2 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.RangeStart == nil || stats.RangeEnd == nil {
		t.Fatalf("expected range to be set")
	}
}

func TestCleanupOldRecords_UsesRetentionWindow(t *testing.T) {
	db := &fakeDB{deleteCount: 5}
	r := NewRecorder(db).WithRetentionDays(30)

	n, err := r.CleanupOldRecords(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 rows removed, got %d", n)
	}
}

func TestWithRetentionDays_IgnoresNonPositive(t *testing.T) {
	r := NewRecorder(&fakeDB{})
	r.WithRetentionDays(0)
	if r.retentionDays != defaultRetentionDays {
		t.Fatalf("expected retentionDays to remain at default, got %d", r.retentionDays)
	}
}
