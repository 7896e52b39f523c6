package core

import (
	"sync"
	"time"

	"github.com/spaghettifunk/scenebridge/engine/containers"
)

const AVG_COUNT int = 30

// FrameStats describes the output of one scene update.
type FrameStats struct {
	Duration      time.Duration
	VertexCount   int
	IndexCount    int
	RenderObjects int
}

// Metrics keeps a rolling window of update timings. Safe for concurrent use.
type Metrics struct {
	mu     sync.Mutex
	window *containers.RingQueue[FrameStats]
	frames uint64
	failed uint64
	last   FrameStats
}

func NewMetrics() *Metrics {
	return &Metrics{
		window: containers.NewRingQueue[FrameStats](AVG_COUNT),
	}
}

func (m *Metrics) Record(stats FrameStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.window.Push(stats)
	m.last = stats
	m.frames++
}

func (m *Metrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// AverageFrameTime is the mean update duration over the last AVG_COUNT updates.
func (m *Metrics) AverageFrameTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.window.IsEmpty() {
		return 0
	}
	var total time.Duration
	m.window.Each(func(s FrameStats) {
		total += s.Duration
	})
	return total / time.Duration(m.window.Len())
}

func (m *Metrics) Last() FrameStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Counts returns the number of successful and failed updates recorded.
func (m *Metrics) Counts() (uint64, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames, m.failed
}
