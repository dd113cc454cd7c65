package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/scan"
	"github.com/jackzampolin/isbnscan/internal/svcctx"
	"github.com/jackzampolin/isbnscan/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok if the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server" yaml:"server"`
	Version   version.Info    `json:"version" yaml:"version"`
	StartedAt time.Time       `json:"started_at" yaml:"started_at"`
	Uptime    string          `json:"uptime" yaml:"uptime"`
	Config    StatusConfig    `json:"config" yaml:"config"`
	Stages    []string        `json:"stages" yaml:"stages"`
	Pool      scan.PoolStatus `json:"pool" yaml:"pool"`
	Metrics   metrics.Summary `json:"metrics" yaml:"metrics"`
}

// StatusConfig is the part of the active configuration worth reporting.
type StatusConfig struct {
	File         string `json:"file,omitempty" yaml:"file,omitempty"`
	Addr         string `json:"addr" yaml:"addr"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes"`
	ScanWorkers  int    `json:"scan_workers" yaml:"scan_workers"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Server status
//	@Description	Uptime, active configuration, scan pool state and extraction counters
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services := svcctx.ServicesFrom(ctx)
	if services == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	resp := StatusResponse{
		Server:    "running",
		Version:   version.Get(),
		StartedAt: services.StartedAt,
		Uptime:    time.Since(services.StartedAt).Round(time.Second).String(),
	}

	if cfg := svcctx.ConfigFrom(ctx); cfg != nil {
		resp.Config = StatusConfig{
			File:         services.ConfigMgr.ConfigFile(),
			Addr:         cfg.Server.Addr(),
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			ScanWorkers:  cfg.Scan.Workers,
			LogLevel:     cfg.Log.Level,
		}
	}
	if ex := services.Extractor; ex != nil {
		resp.Stages = ex.Stages()
	}
	if pool := services.ScanPool; pool != nil {
		resp.Pool = pool.Status()
	}
	if rec := services.Metrics; rec != nil {
		resp.Metrics = rec.Snapshot()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
