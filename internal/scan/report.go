package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/isbnscan/internal/metrics"
)

// Report is the outcome of a scan run.
type Report struct {
	RunID     string               `json:"run_id" yaml:"run_id"`
	StartedAt time.Time            `json:"started_at" yaml:"started_at"`
	Duration  time.Duration        `json:"duration" yaml:"duration"`
	Documents int                  `json:"documents" yaml:"documents"`
	Found     int                  `json:"found" yaml:"found"`
	NotFound  int                  `json:"not_found" yaml:"not_found"`
	Errors    int                  `json:"errors" yaml:"errors"`
	Stages    []metrics.StageCount `json:"stages" yaml:"stages"`
	Results   []Result             `json:"results" yaml:"results"`
}

// Scan runs docs through the pool under a fresh run ID and builds a Report.
// On cancellation the partial report is returned together with the error.
func (p *Pool) Scan(ctx context.Context, docs []Document) (*Report, error) {
	runID := uuid.New().String()
	started := time.Now()

	results, err := p.Run(ctx, runID, docs)
	if results == nil && err != nil {
		return nil, err
	}

	report := NewReport(runID, started, results, p.extractor.Stages())
	report.Duration = time.Since(started)

	p.logger.Info("scan complete",
		"run_id", runID,
		"documents", report.Documents,
		"found", report.Found,
		"errors", report.Errors,
		"duration", report.Duration)

	return report, err
}

// NewReport summarizes results. stageOrder fixes the order of the stage
// breakdown; stages with no hits are still listed.
func NewReport(runID string, startedAt time.Time, results []Result, stageOrder []string) *Report {
	report := &Report{
		RunID:     runID,
		StartedAt: startedAt,
		Documents: len(results),
		Results:   results,
	}

	ms := make([]metrics.Metric, 0, len(results))
	for _, r := range results {
		m := metrics.Metric{Found: r.Found, Kind: r.Kind, Stage: r.Stage, Duration: r.Duration}
		switch {
		case r.Error != "":
			m.ErrorType = "load"
			report.Errors++
		case r.Found:
			report.Found++
		default:
			report.NotFound++
		}
		ms = append(ms, m)
	}
	report.Stages = metrics.Summarize(ms).StageBreakdown(stageOrder)
	return report
}

// Missing returns the results that have no ISBN, including failed loads.
func (r *Report) Missing() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Found {
			out = append(out, res)
		}
	}
	return out
}
