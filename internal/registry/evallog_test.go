package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestEvalLog(t *testing.T) *EvalLog {
	t.Helper()
	l, err := OpenEvalLog(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open eval log: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestEvalLogRecordAndHistory(t *testing.T) {
	ctx := context.Background()
	l := newTestEvalLog(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []EvalRecord{
		{ProteinID: "1lyz", MeetsCriteria: false, Reason: "too short: 10 residues < 50", EvaluatedAt: base},
		{ProteinID: "1lyz", MeetsCriteria: true, Forced: true, EvaluatedAt: base.Add(time.Minute)},
		{ProteinID: "1tim", MeetsCriteria: true, EvaluatedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		if err := l.Record(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	hist, err := l.History(ctx, "1lyz", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 attempts for 1lyz, got %d", len(hist))
	}
	if !hist[0].Forced || !hist[0].MeetsCriteria {
		t.Errorf("expected the forced pass first, got %+v", hist[0])
	}
	if hist[1].Reason != "too short: 10 residues < 50" {
		t.Errorf("expected the original rejection second, got %+v", hist[1])
	}
	if hist[0].ID == "" || hist[0].ID == hist[1].ID {
		t.Error("expected distinct generated record ids")
	}

	all, err := l.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("history (all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 attempts total, got %d", len(all))
	}
}

func TestEvalLogHistoryLimit(t *testing.T) {
	ctx := context.Background()
	l := newTestEvalLog(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := EvalRecord{ProteinID: "1crn", EvaluatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := l.Record(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	hist, err := l.History(ctx, "1crn", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(hist))
	}
	if !hist[0].EvaluatedAt.After(hist[1].EvaluatedAt) {
		t.Error("expected newest attempt first")
	}
}

func TestRegistryAppendsToEvalLog(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.accept("1lyz")
	r := newTestRegistry(t, src)
	l := newTestEvalLog(t)
	r.SetEvalLog(l)

	r.Add(ctx, "1lyz")
	r.Add(ctx, "1lyz") // idempotent hit, no new attempt
	r.Reevaluate(ctx, "1lyz")

	hist, err := l.History(ctx, "1lyz", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(hist))
	}
	forced := 0
	for _, rec := range hist {
		if rec.Forced {
			forced++
		}
	}
	if forced != 1 {
		t.Errorf("expected exactly one forced attempt, got %d", forced)
	}
}

func TestEvalLogOptional(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.accept("1lyz")
	r := newTestRegistry(t, src)

	// No log attached; evaluation still works.
	if ev := r.Add(ctx, "1lyz"); !ev.MeetsCriteria {
		t.Fatal("expected pass without an eval log attached")
	}
}
