package extract

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/jackzampolin/isbnscan/internal/isbn"
)

// Stage names, in cascade order.
const (
	StageLabeled    = "labeled"
	StagePrefixed13 = "prefixed13"
	StageWindow13   = "window13"
	StagePattern10  = "pattern10"
	StageConcat     = "concat"
	StageMangled    = "mangled"
)

// Candidate is an unvalidated ISBN-shaped string found in text.
type Candidate struct {
	Text   string
	Kind   isbn.Kind
	Offset int // position in the view it was found in; used only for ordering
}

// Stage is one extraction heuristic. Candidates yields what the stage finds
// in discovery order and stops as soon as the extractor accepts one, so no
// stage does more work than the first valid candidate needs.
type Stage struct {
	Name       string
	Candidates func(t *Text) iter.Seq[Candidate]
}

// DefaultStages returns the six stages from most to least specific.
func DefaultStages() []Stage {
	return []Stage{
		{Name: StageLabeled, Candidates: labeledCandidates},
		{Name: StagePrefixed13, Candidates: prefixed13Candidates},
		{Name: StageWindow13, Candidates: window13Candidates},
		{Name: StagePattern10, Candidates: pattern10Candidates},
		{Name: StageConcat, Candidates: concatCandidates},
		{Name: StageMangled, Candidates: mangledCandidates},
	}
}

var (
	// labelPattern finds "ISBN", "ISBN-13", "ISBN 10:", "isbn10 -" and the
	// like, followed by 10 to 17 characters of digits, X and separators.
	labelPattern = regexp.MustCompile(`(?i)ISBN[\s:#.=-]*(?:1[03]\b)?[\s:#.=-]*([0-9X][0-9X\s.-]{8,15}[0-9X])`)

	prefixed13Patterns = []*regexp.Regexp{
		// 978-0-13-468599-1, 978 0 13 468599 1
		regexp.MustCompile(`97[89][-\s]\d{1,5}[-\s]\d{1,7}[-\s]\d{1,7}[-\s]\d`),
		// 9780134685991 standing on its own
		regexp.MustCompile(`\b97[89]\d{10}\b`),
		// 9780134685991 glued to surrounding text
		regexp.MustCompile(`97[89]\d{10}`),
		// 9.7.8'0,1... one stray character between digits
		regexp.MustCompile(`9\D?7\D?[89](?:\D?\d){10}`),
	}

	digitSpaceRun = regexp.MustCompile(`\d[\d ]{11,20}\d`)

	pattern10Patterns = []*regexp.Regexp{
		// 0-306-40615-2, 0 306 40615 2
		regexp.MustCompile(`\b\d{1,5}[-\s]\d{1,7}[-\s]\d{1,7}[-\s][\dX]\b`),
		// 080442957X standing on its own
		regexp.MustCompile(`\b\d{9}[\dX]\b`),
		// 080442957X glued to surrounding text
		regexp.MustCompile(`\d{9}[\dX]`),
	}
)

// labeledCandidates looks for an explicit ISBN label in the raw text.
// For each label the separator-free run is cut at 13 and 10 characters,
// but only where the cut falls on a separator or the end of the run.
func labeledCandidates(t *Text) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		m := newCursor(labelPattern, t.Raw)
		for m.next() {
			run := t.Raw[m.loc[2]:m.loc[3]]
			cut13, cut10 := labelCuts(run)
			if cut13 != "" && !yield(Candidate{Text: cut13, Kind: isbn.KindISBN13, Offset: m.loc[2]}) {
				return
			}
			if cut10 != "" && !yield(Candidate{Text: cut10, Kind: isbn.KindISBN10, Offset: m.loc[2]}) {
				return
			}
		}
	}
}

func labelCuts(run string) (cut13, cut10 string) {
	count := 0
	var b strings.Builder
	for i, r := range run {
		if isSeparator(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		count++
		end := i + len(string(r))
		atBoundary := end == len(run) || isSeparator(rune(run[end]))
		switch {
		case count == 10 && atBoundary:
			cut10 = b.String()
		case count == 13 && atBoundary:
			cut13 = b.String()
		}
	}
	return cut13, cut10
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '.'
}

// prefixed13Candidates matches 978/979 numbers in the normalized text in
// several layouts and keeps those with exactly 13 digits.
func prefixed13Candidates(t *Text) iter.Seq[Candidate] {
	return matchAll(t.Normalized, prefixed13Patterns, isbn.KindISBN13, digitsOnly, 13)
}

// window13Candidates scans runs of digits and spaces and yields every
// 978/979-prefixed 13-digit window inside each run.
func window13Candidates(t *Text) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		spaced := spaceOutNonDigits(t.Normalized)
		m := newCursor(digitSpaceRun, spaced)
		for m.next() {
			digits := strings.ReplaceAll(spaced[m.loc[0]:m.loc[1]], " ", "")
			if !windows13(digits, m.loc[0], yield) {
				return
			}
		}
	}
}

// pattern10Candidates matches ISBN-10 layouts in the uppercased raw text.
func pattern10Candidates(t *Text) iter.Seq[Candidate] {
	return matchAll(t.Upper, pattern10Patterns, isbn.KindISBN10, stripSeparators, 10)
}

// concatCandidates joins every digit in the raw text and slides 13- and
// then 10-character windows across the result.
func concatCandidates(t *Text) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		joined := digitsOnly(t.Raw)
		if !windows13(joined, 0, yield) {
			return
		}
		for i := 0; i+10 <= len(joined); i++ {
			if !yield(Candidate{Text: joined[i : i+10], Kind: isbn.KindISBN10, Offset: i}) {
				return
			}
		}
	}
}

// mangledCandidates strips everything but digits from the normalized text
// and slides a 13-character window across it.
func mangledCandidates(t *Text) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		windows13(digitsOnly(t.Normalized), 0, yield)
	}
}

// windows13 yields every 978/979-prefixed 13-character window of digits.
// It reports false if yield asked to stop.
func windows13(digits string, base int, yield func(Candidate) bool) bool {
	for i := 0; i+13 <= len(digits); i++ {
		w := digits[i : i+13]
		if isbn.HasBooklandPrefix(w) && !yield(Candidate{Text: w, Kind: isbn.KindISBN13, Offset: base + i}) {
			return false
		}
	}
	return true
}

// matchAll runs every pattern over s in step, cleans each match and yields
// those of the wanted length ordered by position, then by pattern order.
// A span matched by more than one pattern is yielded once.
func matchAll(s string, patterns []*regexp.Regexp, kind isbn.Kind, clean func(string) string, length int) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		cursors := make([]*cursor, len(patterns))
		for i, re := range patterns {
			cursors[i] = newCursor(re, s)
			cursors[i].next()
		}

		// spans already yielded at the current start position
		var seen [][2]int
		for {
			var best *cursor
			for _, c := range cursors {
				if c.loc != nil && (best == nil || c.loc[0] < best.loc[0]) {
					best = c
				}
			}
			if best == nil {
				return
			}
			span := [2]int{best.loc[0], best.loc[1]}
			best.next()

			if len(seen) > 0 && seen[0][0] != span[0] {
				seen = seen[:0]
			}
			if slices.Contains(seen, span) {
				continue
			}
			seen = append(seen, span)

			cleaned := clean(s[span[0]:span[1]])
			if len(cleaned) != length {
				continue
			}
			if !yield(Candidate{Text: cleaned, Kind: kind, Offset: span[0]}) {
				return
			}
		}
	}
}

// cursor steps through the successive non-overlapping matches of a pattern,
// finding each one only when asked. Every search resumes on the remainder
// of s, so a pattern that opens with \b must also close with one.
type cursor struct {
	re  *regexp.Regexp
	s   string
	pos int
	loc []int // submatch indexes of the current match in s, nil when done
}

func newCursor(re *regexp.Regexp, s string) *cursor {
	return &cursor{re: re, s: s}
}

func (c *cursor) next() bool {
	c.loc = nil
	if c.pos > len(c.s) {
		return false
	}
	loc := c.re.FindStringSubmatchIndex(c.s[c.pos:])
	if loc == nil {
		c.pos = len(c.s) + 1
		return false
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += c.pos
		}
	}
	c.loc = loc
	c.pos = max(loc[1], loc[0]+1)
	return true
}
