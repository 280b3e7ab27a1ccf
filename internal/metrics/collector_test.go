package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpDBSearch, 10*time.Millisecond)
	c.RecordTiming(OpDBSearch, 30*time.Millisecond)
	c.RecordTiming(OpEmbedding, 5*time.Millisecond)

	snap := c.Snapshot()

	search, ok := snap.Operations[OpDBSearch]
	if !ok {
		t.Fatal("expected db_search operation in snapshot")
	}
	if search.Count != 2 {
		t.Errorf("count = %d, want 2", search.Count)
	}
	if search.TotalTimeMs != 40 {
		t.Errorf("total = %dms, want 40ms", search.TotalTimeMs)
	}
	if search.AvgTimeMs != 20 {
		t.Errorf("avg = %fms, want 20ms", search.AvgTimeMs)
	}
	if search.MinTimeMs != 10 || search.MaxTimeMs != 30 {
		t.Errorf("min/max = %d/%d, want 10/30", search.MinTimeMs, search.MaxTimeMs)
	}

	if _, ok := snap.Operations[OpLLMGenerate]; ok {
		t.Error("unrecorded operation should not appear in snapshot")
	}
}

func TestTimePassesThroughError(t *testing.T) {
	c := NewCollector()
	want := errors.New("boom")

	err := c.Time(OpQuery, func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}

	snap := c.Snapshot()
	if snap.Operations[OpQuery].Count != 1 {
		t.Error("failed operation should still be counted")
	}
}

func TestSnapshotUptime(t *testing.T) {
	c := NewCollector()
	if c.Snapshot().UptimeSeconds < 0 {
		t.Error("uptime must not be negative")
	}
}
