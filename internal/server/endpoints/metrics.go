package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/svcctx"
)

// maxRecentMetrics caps the ?recent= query parameter.
const maxRecentMetrics = 500

// MetricsResponse is the response for GET /api/metrics.
type MetricsResponse struct {
	Summary metrics.Summary      `json:"summary" yaml:"summary"`
	Stages  []metrics.StageCount `json:"stages" yaml:"stages"`
	Recent  []metrics.Metric     `json:"recent,omitempty" yaml:"recent,omitempty"`
}

// WriteText prints the stage hit table.
func (r MetricsResponse) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Extractions: %d (found %d, missed %d, errors %d)\n",
		r.Summary.Count, r.Summary.FoundCount, r.Summary.MissCount, r.Summary.ErrorCount)
	fmt.Fprintf(w, "Hit rate:    %.1f%%\n", r.Summary.HitRate*100)
	fmt.Fprintf(w, "Avg time:    %v\n", r.Summary.AvgTime)
	for _, s := range r.Stages {
		if _, err := fmt.Fprintf(w, "  %-12s %d\n", s.Stage, s.Count); err != nil {
			return err
		}
	}
	return nil
}

// MetricsEndpoint handles GET /api/metrics.
type MetricsEndpoint struct{}

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *MetricsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extraction metrics
//	@Description	Counters since start (or last reset): hits per cascade stage, per ISBN kind, per source
//	@Tags			metrics
//	@Produce		json
//	@Param			recent	query		int	false	"Include up to N most recent extractions"
//	@Success		200		{object}	MetricsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec := svcctx.MetricsFrom(ctx)
	if rec == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics recorder not initialized")
		return
	}

	recent := 0
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "recent must be a non-negative integer")
			return
		}
		recent = min(n, maxRecentMetrics)
	}

	var order []string
	if ex := svcctx.ExtractorFrom(ctx); ex != nil {
		order = ex.Stages()
	}

	summary := rec.Snapshot()
	resp := MetricsResponse{
		Summary: summary,
		Stages:  summary.StageBreakdown(order),
	}
	if recent > 0 {
		resp.Recent = rec.Recent(recent)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *MetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show extraction counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/metrics"
			if recent > 0 {
				path += "?recent=" + strconv.Itoa(recent)
			}
			var resp MetricsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 0, "Include the N most recent extractions")
	return cmd
}

// ResetMetricsEndpoint handles POST /api/metrics/reset.
type ResetMetricsEndpoint struct{}

func (e *ResetMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/metrics/reset", e.handler
}

func (e *ResetMetricsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Reset metrics
//	@Description	Clears all extraction counters
//	@Tags			metrics
//	@Produce		json
//	@Success		200	{object}	MetricsResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/metrics/reset [post]
func (e *ResetMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec := svcctx.MetricsFrom(r.Context())
	if rec == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics recorder not initialized")
		return
	}
	rec.Reset()
	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("metrics reset")
	}
	summary := rec.Snapshot()
	writeJSON(w, http.StatusOK, MetricsResponse{Summary: summary, Stages: summary.StageBreakdown(nil)})
}

func (e *ResetMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear extraction counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MetricsResponse
			if err := client.Post(cmd.Context(), "/api/metrics/reset", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
