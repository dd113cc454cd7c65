// Package scan runs ISBN extraction over many OCR documents with a pool of
// workers and summarizes the outcome in a Report.
package scan

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"

	"github.com/jackzampolin/isbnscan/internal/ocrtext"
)

// Document is a unit of OCR output to scan.
type Document struct {
	ID   string
	Name string
	Load func(ctx context.Context) (string, error)
}

// TextDocument wraps already-loaded text.
func TextDocument(id, name, text string) Document {
	return Document{
		ID:   id,
		Name: name,
		Load: func(context.Context) (string, error) {
			return text, nil
		},
	}
}

// FileDocument reads an OCR output file (plain text or hOCR) on Load.
// The ID is derived from the path so repeated scans of a tree line up.
func FileDocument(path string) Document {
	sum := sha1.Sum([]byte(path))
	return Document{
		ID:   hex.EncodeToString(sum[:8]),
		Name: filepath.Base(path),
		Load: func(ctx context.Context) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return ocrtext.ReadFile(path)
		},
	}
}
