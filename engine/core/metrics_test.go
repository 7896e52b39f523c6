package core

import (
	"testing"
	"time"
)

func TestMetricsAverageWindow(t *testing.T) {
	m := NewMetrics()
	if got := m.AverageFrameTime(); got != 0 {
		t.Errorf("AverageFrameTime on empty = %v, want 0", got)
	}
	for i := 0; i < AVG_COUNT; i++ {
		m.Record(FrameStats{Duration: time.Millisecond})
	}
	// Pushes the first AVG_COUNT entries out of the window.
	for i := 0; i < AVG_COUNT; i++ {
		m.Record(FrameStats{Duration: 3 * time.Millisecond, VertexCount: 4})
	}
	if got := m.AverageFrameTime(); got != 3*time.Millisecond {
		t.Errorf("AverageFrameTime = %v, want 3ms", got)
	}
	m.RecordFailure()
	ok, failed := m.Counts()
	if ok != uint64(2*AVG_COUNT) || failed != 1 {
		t.Errorf("Counts = %d, %d", ok, failed)
	}
	if m.Last().VertexCount != 4 {
		t.Errorf("Last().VertexCount = %d, want 4", m.Last().VertexCount)
	}
}
