package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/extract"
)

func TestNewExtractor(t *testing.T) {
	ex, err := newExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(ex.Stages()); got != len(extract.DefaultStages()) {
		t.Errorf("default extractor has %d stages, want %d", got, len(extract.DefaultStages()))
	}

	// Order follows the cascade, not the flag.
	ex, err = newExtractor([]string{"Mangled", " labeled"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(ex.Stages(), ","); got != "labeled,mangled" {
		t.Errorf("Stages() = %s, want labeled,mangled", got)
	}

	if _, err := newExtractor([]string{"labeled", "guess"}); err == nil || !strings.Contains(err.Error(), "guess") {
		t.Errorf("expected unknown stage error naming guess, got %v", err)
	}
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	hocr := filepath.Join(dir, "page.hocr")
	content := `<div class="ocr_page"><span class="ocr_line">ISBN 0-306-40615-2</span></div>`
	if err := os.WriteFile(hocr, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("file detected", func(t *testing.T) {
		name, text, err := loadText(nil, []string{hocr}, "")
		if err != nil {
			t.Fatal(err)
		}
		if name != "page.hocr" {
			t.Errorf("name = %q", name)
		}
		if strings.Contains(text, "<") || !strings.Contains(text, "0-306-40615-2") {
			t.Errorf("text = %q, want markup stripped", text)
		}
	})

	t.Run("forced text", func(t *testing.T) {
		_, text, err := loadText(nil, []string{hocr}, "text")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(text, "ocr_line") {
			t.Errorf("text = %q, want markup kept", text)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		name, text, err := loadText(strings.NewReader("ISBN 978-0-306-40615-7"), []string{"-"}, "")
		if err != nil {
			t.Fatal(err)
		}
		if name != "stdin" || text != "ISBN 978-0-306-40615-7" {
			t.Errorf("got %q %q", name, text)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := loadText(nil, []string{filepath.Join(dir, "nope.txt")}, "text"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, config.LogCfg{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("output = %q", buf.String())
	}

	// Reloads change the shared level in place.
	logLevel.Set(slog.LevelDebug)
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger did not follow level change")
	}

	if _, err := newLogger(&buf, config.LogCfg{Level: "info", Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
