package extract

import (
	"math/rand"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/jackzampolin/isbnscan/internal/isbn"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantISBN  string
		wantStage string
		wantKind  isbn.Kind
	}{
		{
			name:      "labeled hyphenated isbn13",
			input:     "Copyright 2018\nISBN: 978-0-13-468599-1\nPrinted in USA",
			wantISBN:  "9780134685991",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "labeled isbn13 with version suffix",
			input:     "ISBN-13: 9791032300824",
			wantISBN:  "9791032300824",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "spaced version label after decoy",
			input:     "Order 9781861972712\nISBN 13: 9780134685991",
			wantISBN:  "9780134685991",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "spaced isbn10 label after decoy",
			input:     "Order 9781861972712\nISBN 10: 0-13-468599-7",
			wantISBN:  "0134685997",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN10,
		},
		{
			name:      "labeled isbn10",
			input:     "ISBN 0-306-40615-2 (paperback)",
			wantISBN:  "0306406152",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN10,
		},
		{
			name:      "lowercase label and x",
			input:     "isbn 080442957x",
			wantISBN:  "080442957X",
			wantStage: StageLabeled,
			wantKind:  isbn.KindISBN10,
		},
		{
			name:      "ocr confusables inside number",
			input:     "ISBN 978O13468599I",
			wantISBN:  "9780134685991",
			wantStage: StagePrefixed13,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "unlabeled hyphenated groups",
			input:     "Published 2019. 978-0-306-40615-7 All rights reserved",
			wantISBN:  "9780306406157",
			wantStage: StagePrefixed13,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "irregular spacing",
			input:     "ref: 978  0134  685991",
			wantISBN:  "9780134685991",
			wantStage: StageWindow13,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "unlabeled isbn10 groups",
			input:     "Catalogue no. 0-306-40615-2",
			wantISBN:  "0306406152",
			wantStage: StagePattern10,
			wantKind:  isbn.KindISBN10,
		},
		{
			name:      "isbn13 split by long noise",
			input:     "978013 ~~~~~~~~~~ 4685991",
			wantISBN:  "9780134685991",
			wantStage: StageConcat,
			wantKind:  isbn.KindISBN13,
		},
		{
			name:      "isbn10 split by long noise",
			input:     "0306 ~~~~~~~~~~~~ 406152",
			wantISBN:  "0306406152",
			wantStage: StageConcat,
			wantKind:  isbn.KindISBN10,
		},
		{
			name:      "confusables split by long noise",
			input:     "978O13 ~~~~~~~~~~~~ 468599I",
			wantISBN:  "9780134685991",
			wantStage: StageMangled,
			wantKind:  isbn.KindISBN13,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindISBN(tt.input)
			if !ok {
				t.Fatalf("FindISBN(%q) found nothing, want %s", tt.input, tt.wantISBN)
			}
			if got.ISBN != tt.wantISBN {
				t.Errorf("ISBN = %q, want %q", got.ISBN, tt.wantISBN)
			}
			if got.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", got.Stage, tt.wantStage)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	for _, input := range []string{
		"no numbers here at all",
		"",
		"ISBN: pending",
		"Call 555-0134-6859 today",
		"9780134685992",
		"\x00\xff\xfe garbage \x01",
	} {
		t.Run(input, func(t *testing.T) {
			if got, ok := Extract(input); ok {
				t.Errorf("Extract(%q) = %q, want no match", input, got)
			}
		})
	}
}

func TestExtract_LabelBeatsDecoys(t *testing.T) {
	// Both decoys are checksum-valid ISBN-13s that appear before the label.
	const decoys = "Order 9781861972712 ref 9783161484100\n"
	tests := []struct {
		label string
		code  string
		want  string
	}{
		{label: "ISBN ", code: "9780134685991", want: "9780134685991"},
		{label: "ISBN:", code: "978-0-13-468599-1", want: "9780134685991"},
		{label: "ISBN-13: ", code: "9780134685991", want: "9780134685991"},
		{label: "ISBN 13: ", code: "978 0 13 468599 1", want: "9780134685991"},
		{label: "ISBN10 ", code: "0-13-468599-7", want: "0134685997"},
		{label: "isbn 10 - ", code: "0134685997", want: "0134685997"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := FindISBN(decoys + tt.label + tt.code)
			if !ok {
				t.Fatal("expected a match")
			}
			if got.ISBN != tt.want {
				t.Errorf("expected labeled ISBN %s, got %s", tt.want, got.ISBN)
			}
			if got.Stage != StageLabeled {
				t.Errorf("expected stage %s, got %s", StageLabeled, got.Stage)
			}
		})
	}
}

func TestExtract_FirstInTextWinsWithinStage(t *testing.T) {
	got, ok := Extract("9781861972712 and 9780134685991")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "9781861972712" {
		t.Errorf("expected leftmost ISBN, got %s", got)
	}
}

func TestExtract_InvalidLabelFallsThrough(t *testing.T) {
	got, ok := FindISBN("ISBN 9780134685992\nsee also 9780306406157")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.ISBN != "9780306406157" {
		t.Errorf("expected 9780306406157, got %s", got.ISBN)
	}
	if got.Stage != StagePrefixed13 {
		t.Errorf("expected stage %s, got %s", StagePrefixed13, got.Stage)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "Pr1nted  ISBN 978-O-13-468599-1\nwith noise 9781861972712"
	first, ok1 := FindISBN(text)
	for i := 0; i < 5; i++ {
		again, ok := FindISBN(text)
		if ok != ok1 || again != first {
			t.Fatalf("run %d: got %+v/%v, want %+v/%v", i, again, ok, first, ok1)
		}
	}
}

var validShape = regexp.MustCompile(`^(\d{9}[\dX]|97[89]\d{10})$`)

func TestExtract_ResultInvariant(t *testing.T) {
	alphabet := []rune("0123456789X -.:ISBNOolsbz|\n978")
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		var b strings.Builder
		n := rng.Intn(60)
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		input := b.String()
		got, ok := FindISBN(input)
		if !ok {
			continue
		}
		if !validShape.MatchString(got.ISBN) {
			t.Fatalf("FindISBN(%q) returned malformed %q", input, got.ISBN)
		}
		if isbn.KindOf(got.ISBN) != got.Kind {
			t.Fatalf("FindISBN(%q) returned %q with kind %q, validator says %q",
				input, got.ISBN, got.Kind, isbn.KindOf(got.ISBN))
		}
	}
}

func TestNew_CustomStages(t *testing.T) {
	e := New(Stage{Name: StageMangled, Candidates: mangledCandidates})
	if names := e.Stages(); len(names) != 1 || names[0] != StageMangled {
		t.Fatalf("unexpected stages: %v", names)
	}

	// Only the mangled stage runs, so even a labeled ISBN reports it.
	got, ok := e.Find("ISBN 978-0-13-468599-1")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Stage != StageMangled {
		t.Errorf("expected stage %s, got %s", StageMangled, got.Stage)
	}
}

func TestDefaultStages_Order(t *testing.T) {
	want := []string{StageLabeled, StagePrefixed13, StageWindow13, StagePattern10, StageConcat, StageMangled}
	got := New().Stages()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// allocatedBytes reports the bytes allocated while running fn.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestFind_AllocationsBounded(t *testing.T) {
	// No ten-digit window of the repeated token passes the ISBN-10 checksum.
	long := strings.Repeat("5555555551 ", 20000)
	tests := []struct {
		name     string
		input    string
		found    bool
		maxRatio uint64 // allowed bytes allocated per input byte
	}{
		{name: "label before long tail", input: "ISBN 978-0-13-468599-1\n" + long, found: true, maxRatio: 8},
		{name: "long digits without an isbn", input: long, found: false, maxRatio: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ok bool
			n := allocatedBytes(func() {
				_, ok = FindISBN(tt.input)
			})
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if limit := tt.maxRatio * uint64(len(tt.input)); n > limit {
				t.Errorf("allocated %d bytes for %d bytes of input, limit %d", n, len(tt.input), limit)
			}
		})
	}
}
