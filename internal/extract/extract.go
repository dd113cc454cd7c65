// Package extract finds a single valid ISBN in noisy OCR text.
//
// Extraction runs an ordered cascade of stages, from an explicit "ISBN"
// label down to a blind sliding window over every digit in the text. The
// first stage that produces a checksum-valid candidate wins and later stages
// are never consulted. Extraction is pure and safe for concurrent use.
package extract

import (
	"github.com/jackzampolin/isbnscan/internal/isbn"
)

// Result is a validated ISBN and where in the cascade it was found.
type Result struct {
	ISBN  string    `json:"isbn" yaml:"isbn"`
	Kind  isbn.Kind `json:"kind" yaml:"kind"`
	Stage string    `json:"stage" yaml:"stage"`
}

// Extractor runs a fixed sequence of stages.
type Extractor struct {
	stages []Stage
}

// New creates an Extractor that runs stages in the given order.
// With no stages it uses DefaultStages.
func New(stages ...Stage) *Extractor {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	return &Extractor{stages: stages}
}

// Stages returns the names of the configured stages in order.
func (e *Extractor) Stages() []string {
	names := make([]string, len(e.stages))
	for i, s := range e.stages {
		names[i] = s.Name
	}
	return names
}

// Find returns the first valid ISBN found by the earliest stage that finds one.
func (e *Extractor) Find(text string) (Result, bool) {
	t := NewText(text)
	for _, s := range e.stages {
		for c := range s.Candidates(t) {
			if accept(c) {
				return Result{ISBN: c.Text, Kind: c.Kind, Stage: s.Name}, true
			}
		}
	}
	return Result{}, false
}

// accept is the validation predicate shared by every stage. A candidate
// must be valid as the kind its stage claimed.
func accept(c Candidate) bool {
	return isbn.KindOf(c.Text) == c.Kind && len(c.Text) == kindLength(c.Kind)
}

func kindLength(k isbn.Kind) int {
	switch k {
	case isbn.KindISBN10:
		return 10
	case isbn.KindISBN13:
		return 13
	}
	return 0
}

var defaultExtractor = New()

// Extract returns the ISBN found in text, or false if there is none.
func Extract(text string) (string, bool) {
	r, ok := defaultExtractor.Find(text)
	return r.ISBN, ok
}

// FindISBN is Find on the default stage cascade.
func FindISBN(text string) (Result, bool) {
	return defaultExtractor.Find(text)
}
