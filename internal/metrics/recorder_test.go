package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestRecorder_Snapshot(t *testing.T) {
	r := NewRecorder(0)

	r.Record(Metric{Source: "cli", Found: true, ISBN: "9780134685991", Kind: "isbn13", Stage: "labeled", Duration: 2 * time.Millisecond})
	r.Record(Metric{Source: "http", Found: true, ISBN: "0306406152", Kind: "isbn10", Stage: "pattern10", Duration: 4 * time.Millisecond})
	r.Record(Metric{Source: "http", Found: false, Duration: 3 * time.Millisecond})
	r.Record(Metric{Source: "scan", ErrorType: "read", Duration: 3 * time.Millisecond})

	s := r.Snapshot()
	if s.Count != 4 {
		t.Errorf("expected count 4, got %d", s.Count)
	}
	if s.FoundCount != 2 || s.MissCount != 1 || s.ErrorCount != 1 {
		t.Errorf("unexpected counts: found=%d miss=%d error=%d", s.FoundCount, s.MissCount, s.ErrorCount)
	}
	if s.ByStage["labeled"] != 1 || s.ByStage["pattern10"] != 1 {
		t.Errorf("unexpected stage counts: %v", s.ByStage)
	}
	if s.ByKind["isbn13"] != 1 || s.ByKind["isbn10"] != 1 {
		t.Errorf("unexpected kind counts: %v", s.ByKind)
	}
	if s.BySource["http"] != 2 {
		t.Errorf("expected 2 http metrics, got %d", s.BySource["http"])
	}
	if s.TotalTime != 12*time.Millisecond {
		t.Errorf("expected total 12ms, got %v", s.TotalTime)
	}
	if s.AvgTime != 3*time.Millisecond {
		t.Errorf("expected avg 3ms, got %v", s.AvgTime)
	}
	// Errors are excluded from the hit rate denominator.
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("expected hit rate 2/3, got %f", s.HitRate)
	}
	if s.Since.IsZero() {
		t.Error("expected Since to be set")
	}
}

func TestRecorder_SnapshotIsCopy(t *testing.T) {
	r := NewRecorder(0)
	r.Record(Metric{Found: true, Kind: "isbn13", Stage: "labeled"})

	s := r.Snapshot()
	s.ByStage["labeled"] = 100

	if got := r.Snapshot().ByStage["labeled"]; got != 1 {
		t.Errorf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestRecorder_Recent(t *testing.T) {
	r := NewRecorder(3)
	for _, isbn := range []string{"a", "b", "c", "d", "e"} {
		r.Record(Metric{Found: true, ISBN: isbn})
	}

	got := r.Recent(0)
	if len(got) != 3 {
		t.Fatalf("expected 3 retained metrics, got %d", len(got))
	}
	want := []string{"e", "d", "c"}
	for i, m := range got {
		if m.ISBN != want[i] {
			t.Errorf("Recent[%d] = %q, want %q", i, m.ISBN, want[i])
		}
	}

	if got := r.Recent(1); len(got) != 1 || got[0].ISBN != "e" {
		t.Errorf("expected newest only, got %+v", got)
	}

	// Summary counts everything, not just what is retained.
	if c := r.Snapshot().Count; c != 5 {
		t.Errorf("expected count 5, got %d", c)
	}
}

func TestRecorder_RecentBeforeWrap(t *testing.T) {
	r := NewRecorder(5)
	r.Record(Metric{ISBN: "a"})
	r.Record(Metric{ISBN: "b"})

	got := r.Recent(10)
	if len(got) != 2 || got[0].ISBN != "b" || got[1].ISBN != "a" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder(2)
	r.Record(Metric{Found: true, Stage: "concat"})
	r.Record(Metric{Found: true, Stage: "concat"})
	r.Record(Metric{Found: true, Stage: "concat"})
	r.Reset()

	s := r.Snapshot()
	if s.Count != 0 || len(s.ByStage) != 0 {
		t.Errorf("expected empty summary after reset, got %+v", s)
	}
	if len(r.Recent(0)) != 0 {
		t.Error("expected no recent metrics after reset")
	}

	r.Record(Metric{ISBN: "x"})
	if got := r.Recent(0); len(got) != 1 || got[0].ISBN != "x" {
		t.Errorf("unexpected recent after reset: %+v", got)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder(10)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Record(Metric{Found: j%2 == 0, Stage: "window13", Kind: "isbn13"})
			}
		}()
	}
	wg.Wait()

	s := r.Snapshot()
	if s.Count != 1000 {
		t.Errorf("expected 1000 metrics, got %d", s.Count)
	}
	if s.FoundCount != 500 {
		t.Errorf("expected 500 found, got %d", s.FoundCount)
	}
}

func TestSummary_StageBreakdown(t *testing.T) {
	s := Summarize([]Metric{
		{Found: true, Stage: "pattern10", Kind: "isbn10"},
		{Found: true, Stage: "labeled", Kind: "isbn13"},
		{Found: true, Stage: "labeled", Kind: "isbn13"},
		{Found: true, Stage: "custom", Kind: "isbn13"},
	})

	got := s.StageBreakdown([]string{"labeled", "prefixed13", "pattern10"})
	want := []StageCount{
		{Stage: "labeled", Count: 2},
		{Stage: "prefixed13", Count: 0},
		{Stage: "pattern10", Count: 1},
		{Stage: "custom", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
