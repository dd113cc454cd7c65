// Package ocrtext turns saved OCR engine output into the plain text the
// extractor works on.
package ocrtext

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format is the layout of an OCR output document.
type Format string

const (
	FormatText Format = "text"
	FormatHOCR Format = "hocr"
)

// ErrUnsupportedFormat is returned for formats other than text and hocr.
var ErrUnsupportedFormat = errors.New("unsupported ocr format")

// ParseFormat maps a user-supplied format name to a Format.
// An empty name means FormatText.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt", "plain":
		return FormatText, nil
	case "hocr", "html":
		return FormatHOCR, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat guesses the format from a file name and, failing that,
// from the first kilobyte of content.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hocr", ".html", ".htm", ".xhtml":
		return FormatHOCR
	case ".txt", ".text":
		return FormatText
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("ocr_page")) || bytes.Contains(head, []byte("ocr-system")) {
		return FormatHOCR
	}
	return FormatText
}

// Parse converts data in the given format to cleaned plain text.
func Parse(data []byte, format Format) (string, error) {
	switch format {
	case FormatText, "":
		return Clean(string(data)), nil
	case FormatHOCR:
		text, err := parseHOCR(data)
		if err != nil {
			return "", fmt.Errorf("failed to parse hocr: %w", err)
		}
		return Clean(text), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadFile reads an OCR output file and returns its cleaned text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data, DetectFormat(path, data))
}

// Clean applies NFKC normalization, which folds full-width and other
// compatibility digits to ASCII, and drops invisible characters.
func Clean(text string) string {
	text = norm.NFKC.String(text)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
			return -1
		}
		return r
	}, text)
}
