package ocrtext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// lineClasses are the hOCR classes that hold one line of recognized text.
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
	"ocrx_line":     true,
}

// parseHOCR returns the text of an hOCR document with one output line per
// hOCR line element. Documents declaring a Latin-1 charset are decoded first.
func parseHOCR(data []byte) (string, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isLine(n) {
			if line := strings.Join(strings.Fields(textContent(n)), " "); line != "" {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Not every producer emits line elements; fall back to the body text.
	if len(lines) == 0 {
		return strings.TrimSpace(textContent(doc)), nil
	}
	return strings.Join(lines, "\n"), nil
}

func isLine(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(a.Val) {
			if lineClasses[class] {
				return true
			}
		}
	}
	return false
}

// textContent concatenates text nodes, putting a space between elements so
// adjacent ocrx_word spans do not run together.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "head" {
				return
			}
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// decodeCharset converts ISO-8859-1 and Windows-1252 documents to UTF-8.
func decodeCharset(data []byte) ([]byte, error) {
	head := strings.ToLower(string(data[:min(len(data), 2048)]))
	idx := strings.Index(head, "charset=")
	if idx < 0 {
		return data, nil
	}
	rest := strings.TrimLeft(head[idx+len("charset="):], `"' `)
	end := strings.IndexAny(rest, `"'; />`)
	if end >= 0 {
		rest = rest[:end]
	}

	var decoder *charmap.Charmap
	switch rest {
	case "iso-8859-1", "latin1", "latin-1", "iso8859-1":
		decoder = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		decoder = charmap.Windows1252
	default:
		return data, nil
	}

	decoded, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", rest, err)
	}
	return decoded, nil
}
