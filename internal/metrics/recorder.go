package metrics

import (
	"sync"
	"time"
)

// DefaultRecentLimit is how many recent metrics a Recorder keeps by default.
const DefaultRecentLimit = 500

// Recorder accumulates extraction metrics in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	started time.Time
	limit   int

	// Ring of the most recent metrics; next is the slot to overwrite.
	recent []Metric
	next   int
	full   bool

	summary Summary
}

// NewRecorder creates a recorder that keeps up to limit recent metrics.
// A limit <= 0 uses DefaultRecentLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Recorder{
		started: time.Now(),
		limit:   limit,
		recent:  make([]Metric, 0, limit),
		summary: newSummary(),
	}
}

// Record stores a single metric.
func (r *Recorder) Record(m Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.add(m)

	if len(r.recent) < r.limit {
		r.recent = append(r.recent, m)
		return
	}
	r.recent[r.next] = m
	r.next = (r.next + 1) % r.limit
	r.full = true
}

// Recent returns up to n of the most recent metrics, newest first.
// n <= 0 returns everything retained.
func (r *Recorder) Recent(n int) []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.recent)
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Metric, 0, n)
	// Newest entry sits just before next once the ring has wrapped.
	newest := size - 1
	if r.full {
		newest = (r.next - 1 + size) % size
	}
	for i := 0; i < n; i++ {
		out = append(out, r.recent[(newest-i+size)%size])
	}
	return out
}

// Snapshot returns a copy of the accumulated summary.
func (r *Recorder) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.summary.clone()
	s.Since = r.started
	return s
}

// Reset clears all recorded metrics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = time.Now()
	r.recent = r.recent[:0]
	r.next = 0
	r.full = false
	r.summary = newSummary()
}
