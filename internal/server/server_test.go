package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
	"github.com/jackzampolin/isbnscan/internal/testutil"
)

// startServer runs srv until the test ends.
func startServer(t *testing.T, srv *Server, url string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()
	starter := testutil.StartServer{Cancel: cancel, Done: done}
	t.Cleanup(starter.Stop)

	if err := testutil.WaitForServer(url, 10*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := srv.Addr(); got != "127.0.0.1:8280" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8280", got)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if srv.Metrics() == nil {
		t.Error("Metrics() = nil")
	}
	if n := len(srv.Endpoints().Endpoints()); n != len(endpoints.All()) {
		t.Errorf("registered %d endpoints, want %d", n, len(endpoints.All()))
	}
}

func TestNew_RejectsNegativePool(t *testing.T) {
	if _, err := New(Config{ScanWorkers: -1}); err == nil {
		t.Fatal("New() expected error for negative workers")
	}
}

func TestServer_RequiresInitBeforeStart(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/status", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/metrics", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	t.Run("validate without init", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"code":"0-306-40615-2"}`)
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/isbn/validate", body))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestServer_FullLifecycle(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	srv, err := New(Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		Logger: cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startServer(t, srv, cfg.URL())

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := http.Get(cfg.URL() + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if _, err := uuid.Parse(resp.Header.Get(api.RequestIDHeader)); err != nil {
			t.Errorf("response request ID is not a UUID: %v", err)
		}
	})

	t.Run("request_id_echo", func(t *testing.T) {
		id := uuid.NewString()
		req, _ := http.NewRequest(http.MethodGet, cfg.URL()+"/health", nil)
		req.Header.Set(api.RequestIDHeader, id)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get(api.RequestIDHeader); got != id {
			t.Errorf("request ID = %q, want %q", got, id)
		}
	})

	t.Run("request_id_replaced_when_invalid", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, cfg.URL()+"/health", nil)
		req.Header.Set(api.RequestIDHeader, "not-a-uuid")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get(api.RequestIDHeader); got == "not-a-uuid" || got == "" {
			t.Errorf("request ID = %q, want a fresh UUID", got)
		}
	})

	t.Run("extract_via_client", func(t *testing.T) {
		client := api.NewClient(cfg.URL())
		var resp endpoints.ExtractResponse
		err := client.Post(context.Background(), "/api/isbn/extract",
			endpoints.ExtractRequest{Text: "ISBN 978-0-306-40615-7"}, &resp)
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		if resp.ISBN != "9780306406157" {
			t.Errorf("ISBN = %q, want 9780306406157", resp.ISBN)
		}
		if resp.RequestID == "" {
			t.Error("RequestID is empty")
		}
	})

	t.Run("status_endpoint", func(t *testing.T) {
		status, err := testutil.GetStatus(context.Background(), cfg.URL())
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if status.Server != "running" {
			t.Errorf("Server = %q, want running", status.Server)
		}
		if status.Pool.Name != "http-batch" {
			t.Errorf("Pool.Name = %q, want http-batch", status.Pool.Name)
		}
		if status.Metrics.Count != 1 || status.Metrics.FoundCount != 1 {
			t.Errorf("Metrics = %+v, want one hit", status.Metrics)
		}
	})

	t.Run("server_error_carries_request_id", func(t *testing.T) {
		client := api.NewClient(cfg.URL())
		var resp endpoints.ValidateResponse
		err := client.Post(context.Background(), "/api/isbn/validate", map[string]any{"code": 7}, &resp)
		var serr *api.ServerError
		if !errors.As(err, &serr) {
			t.Fatalf("error = %v, want *api.ServerError", err)
		}
		if serr.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", serr.StatusCode, http.StatusBadRequest)
		}
		if serr.RequestID == "" {
			t.Error("RequestID is empty")
		}
	})

	t.Run("double_start", func(t *testing.T) {
		if err := srv.Start(context.Background()); err == nil {
			t.Error("second Start() expected error")
		}
	})
}

func TestServer_Shutdown(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	srv, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}
	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("Start() returned %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_PortInUse(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	first, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startServer(t, first, cfg.URL())

	second, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("Start() on a bound port expected error")
	}
}

func TestServer_ConfigManager(t *testing.T) {
	cfg := testutil.NewServerConfig(t)
	path := cfg.WriteConfig(t, fmt.Sprintf(`server:
  host: %s
  port: "%s"
  max_body_bytes: 128
scan:
  workers: 2
`, cfg.Host, cfg.Port))

	mgr, err := config.NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	srv, err := New(Config{ConfigManager: mgr, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startServer(t, srv, cfg.URL())

	t.Run("body_limit", func(t *testing.T) {
		body, _ := json.Marshal(endpoints.ExtractRequest{Text: strings.Repeat("9", 512)})
		resp, err := http.Post(cfg.URL()+"/api/isbn/extract", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("status_reports_config", func(t *testing.T) {
		var status endpoints.StatusResponse
		if err := api.NewClient(cfg.URL()).Get(context.Background(), "/status", &status); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if status.Config.File != path {
			t.Errorf("Config.File = %q, want %q", status.Config.File, path)
		}
		if status.Config.MaxBodyBytes != 128 {
			t.Errorf("Config.MaxBodyBytes = %d, want 128", status.Config.MaxBodyBytes)
		}
		if status.Pool.Workers != 2 {
			t.Errorf("Pool.Workers = %d, want 2", status.Pool.Workers)
		}
	})
}
