// Package metrics tracks extraction outcomes: how often an ISBN was found,
// which cascade stage found it, and how long extraction took.
package metrics

import "time"

// Metric is a single recorded extraction.
type Metric struct {
	// Attribution
	Source   string `json:"source,omitempty"`   // "cli", "http", "scan"
	RunID    string `json:"run_id,omitempty"`   // scan run or request ID
	Document string `json:"document,omitempty"` // file name or request document name

	// Outcome
	Found bool   `json:"found"`
	ISBN  string `json:"isbn,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Stage string `json:"stage,omitempty"`

	// Timing
	Duration time.Duration `json:"duration"`

	// Status
	ErrorType string `json:"error_type,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Failed reports whether the extraction could not run at all
// (as opposed to running and finding nothing).
func (m *Metric) Failed() bool {
	return m.ErrorType != ""
}
