package metrics

import (
	"sort"
	"time"
)

// Summary aggregates recorded metrics.
type Summary struct {
	Since      time.Time      `json:"since" yaml:"since"`
	Count      int            `json:"count" yaml:"count"`
	FoundCount int            `json:"found_count" yaml:"found_count"`
	MissCount  int            `json:"miss_count" yaml:"miss_count"`
	ErrorCount int            `json:"error_count" yaml:"error_count"`
	ByStage    map[string]int `json:"by_stage" yaml:"by_stage"`
	ByKind     map[string]int `json:"by_kind" yaml:"by_kind"`
	BySource   map[string]int `json:"by_source" yaml:"by_source"`
	TotalTime  time.Duration  `json:"total_time" yaml:"total_time"`
	AvgTime    time.Duration  `json:"avg_time" yaml:"avg_time"`
	HitRate    float64        `json:"hit_rate" yaml:"hit_rate"`
}

func newSummary() Summary {
	return Summary{
		ByStage:  make(map[string]int),
		ByKind:   make(map[string]int),
		BySource: make(map[string]int),
	}
}

func (s *Summary) add(m Metric) {
	s.Count++
	s.TotalTime += m.Duration
	if m.Source != "" {
		s.BySource[m.Source]++
	}
	switch {
	case m.Failed():
		s.ErrorCount++
	case m.Found:
		s.FoundCount++
		s.ByStage[m.Stage]++
		s.ByKind[m.Kind]++
	default:
		s.MissCount++
	}

	s.AvgTime = s.TotalTime / time.Duration(s.Count)
	if attempted := s.FoundCount + s.MissCount; attempted > 0 {
		s.HitRate = float64(s.FoundCount) / float64(attempted)
	}
}

func (s Summary) clone() Summary {
	out := s
	out.ByStage = copyCounts(s.ByStage)
	out.ByKind = copyCounts(s.ByKind)
	out.BySource = copyCounts(s.BySource)
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Summarize aggregates a slice of metrics without a Recorder.
func Summarize(metrics []Metric) Summary {
	s := newSummary()
	for _, m := range metrics {
		s.add(m)
	}
	return s
}

// StageCount is the number of hits for one stage.
type StageCount struct {
	Stage string `json:"stage" yaml:"stage"`
	Count int    `json:"count" yaml:"count"`
}

// StageBreakdown returns per-stage hit counts, ordered by the given stage
// order. Stages not in order are appended alphabetically.
func (s Summary) StageBreakdown(order []string) []StageCount {
	out := make([]StageCount, 0, len(s.ByStage))
	seen := make(map[string]bool, len(order))
	for _, stage := range order {
		seen[stage] = true
		out = append(out, StageCount{Stage: stage, Count: s.ByStage[stage]})
	}

	var extra []string
	for stage := range s.ByStage {
		if !seen[stage] {
			extra = append(extra, stage)
		}
	}
	sort.Strings(extra)
	for _, stage := range extra {
		out = append(out, StageCount{Stage: stage, Count: s.ByStage[stage]})
	}
	return out
}
