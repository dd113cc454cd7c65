// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/extract"
	"github.com/jackzampolin/isbnscan/internal/home"
	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/scan"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Extractor *extract.Extractor
	ScanPool  *scan.Pool
	Metrics   *metrics.Recorder
	ConfigMgr *config.Manager
	Logger    *slog.Logger
	Home      *home.Dir
	StartedAt time.Time
}

type servicesKey struct{}

type requestKey struct{}

type requestInfo struct {
	id     string
	logger *slog.Logger
}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// WithRequest attaches a request ID and its scoped logger.
func WithRequest(ctx context.Context, id string, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestKey{}, requestInfo{id: id, logger: logger})
}

// RequestIDFrom returns the request ID, or "" outside a request.
func RequestIDFrom(ctx context.Context) string {
	info, _ := ctx.Value(requestKey{}).(requestInfo)
	return info.id
}

// ExtractorFrom extracts the ISBN extractor from context.
func ExtractorFrom(ctx context.Context) *extract.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// ScanPoolFrom extracts the batch scan pool from context.
func ScanPoolFrom(ctx context.Context) *scan.Pool {
	if s := ServicesFrom(ctx); s != nil {
		return s.ScanPool
	}
	return nil
}

// MetricsFrom extracts the metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// ConfigFrom extracts the current configuration from context.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil && s.ConfigMgr != nil {
		return s.ConfigMgr.Get()
	}
	return nil
}

// LoggerFrom extracts the logger from context, preferring the
// request-scoped logger when there is one.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if info, ok := ctx.Value(requestKey{}).(requestInfo); ok && info.logger != nil {
		return info.logger
	}
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
