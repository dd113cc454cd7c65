package scan

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/isbnscan/internal/extract"
	"github.com/jackzampolin/isbnscan/internal/metrics"
)

// ErrNoExtractor is returned when a pool is started without an extractor.
var ErrNoExtractor = errors.New("scan pool has no extractor")

// Result is the outcome of scanning one document.
type Result struct {
	DocumentID string        `json:"document_id" yaml:"document_id"`
	Name       string        `json:"name" yaml:"name"`
	Found      bool          `json:"found" yaml:"found"`
	ISBN       string        `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Kind       string        `json:"kind,omitempty" yaml:"kind,omitempty"`
	Stage      string        `json:"stage,omitempty" yaml:"stage,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// PoolStatus is a point-in-time view of a pool.
type PoolStatus struct {
	Name       string `json:"name" yaml:"name"`
	Workers    int    `json:"workers" yaml:"workers"`
	InFlight   int    `json:"in_flight" yaml:"in_flight"`
	QueueDepth int    `json:"queue_depth" yaml:"queue_depth"`
}

// Pool extracts ISBNs from documents with a fixed number of workers.
// All workers share a single queue.
type Pool struct {
	name        string
	source      string
	logger      *slog.Logger
	workerCount int
	queueSize   int

	extractor *extract.Extractor
	recorder  *metrics.Recorder

	inFlight atomic.Int32
	queued   atomic.Int32
}

// PoolConfig configures a new Pool.
type PoolConfig struct {
	Name        string
	Source      string // metric attribution, e.g. "scan" or "http"
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: runtime.NumCPU())
	QueueSize   int // Queue size (default: 2x workers)
	Extractor   *extract.Extractor
	Recorder    *metrics.Recorder // optional
}

type workUnit struct {
	index int
	doc   Document
}

// NewPool creates a new scan pool.
func NewPool(cfg PoolConfig) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "scan"
	}

	source := cfg.Source
	if source == "" {
		source = "scan"
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = workerCount * 2
	}

	return &Pool{
		name:        name,
		source:      source,
		logger:      logger.With("pool", name, "workers", workerCount),
		workerCount: workerCount,
		queueSize:   queueSize,
		extractor:   cfg.Extractor,
		recorder:    cfg.Recorder,
	}
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Status returns current pool status.
func (p *Pool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: int(p.queued.Load()),
	}
}

// Run scans docs and returns one Result per document, in input order.
// If ctx is cancelled, documents that were not processed carry the context
// error and Run returns it.
func (p *Pool) Run(ctx context.Context, runID string, docs []Document) ([]Result, error) {
	if p.extractor == nil {
		return nil, ErrNoExtractor
	}

	results := make([]Result, len(docs))
	done := make([]bool, len(docs))
	if err := ctx.Err(); err != nil {
		for i, doc := range docs {
			results[i] = Result{DocumentID: doc.ID, Name: doc.Name, Error: err.Error()}
		}
		return results, err
	}
	queue := make(chan workUnit, p.queueSize)

	p.logger.Debug("scan started", "run_id", runID, "documents", len(docs))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for i, doc := range docs {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case queue <- workUnit{index: i, doc: doc}:
				p.queued.Add(1)
			}
		}
		return nil
	})

	for i := 0; i < p.workerCount; i++ {
		g.Go(func() error {
			return p.worker(gctx, i, runID, queue, results, done)
		})
	}

	err := g.Wait()
	for range queue {
		p.queued.Add(-1)
	}

	for i := range docs {
		if !done[i] {
			cause := ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			results[i] = Result{DocumentID: docs[i].ID, Name: docs[i].Name, Error: cause.Error()}
		}
	}

	if err != nil {
		p.logger.Warn("scan interrupted", "run_id", runID, "error", err)
		return results, err
	}
	p.logger.Debug("scan finished", "run_id", runID, "documents", len(docs))
	return results, nil
}

// worker processes units from the shared queue. Each unit owns its index,
// so results and done are written without locking.
func (p *Pool) worker(ctx context.Context, id int, runID string, queue <-chan workUnit, results []Result, done []bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case unit, ok := <-queue:
			if !ok {
				return nil
			}
			p.queued.Add(-1)
			p.inFlight.Add(1)
			results[unit.index] = p.process(ctx, runID, unit.doc)
			done[unit.index] = true
			p.inFlight.Add(-1)
			p.logger.Debug("document scanned", "worker_id", id, "document", unit.doc.Name, "found", results[unit.index].Found)
		}
	}
}

func (p *Pool) process(ctx context.Context, runID string, doc Document) Result {
	result := Result{DocumentID: doc.ID, Name: doc.Name}
	start := time.Now()

	metric := metrics.Metric{
		Source:   p.source,
		RunID:    runID,
		Document: doc.Name,
	}

	if doc.Load == nil {
		result.Error = "document has no loader"
		metric.ErrorType = "load"
		p.record(metric)
		return result
	}

	text, err := doc.Load(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		metric.ErrorType = "load"
		metric.Duration = result.Duration
		p.logger.Debug("document load failed", "document", doc.Name, "error", err)
		p.record(metric)
		return result
	}

	found, ok := p.extractor.Find(text)
	result.Duration = time.Since(start)
	if ok {
		result.Found = true
		result.ISBN = found.ISBN
		result.Kind = string(found.Kind)
		result.Stage = found.Stage
	}

	metric.Found = result.Found
	metric.ISBN = result.ISBN
	metric.Kind = result.Kind
	metric.Stage = result.Stage
	metric.Duration = result.Duration
	p.record(metric)
	return result
}

func (p *Pool) record(m metrics.Metric) {
	if p.recorder != nil {
		p.recorder.Record(m)
	}
}
