package extract

import (
	"slices"
	"strings"
	"testing"

	"github.com/jackzampolin/isbnscan/internal/isbn"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "confusables", input: "Il|Oo SsBbZz", want: "11100 558822"},
		{name: "lowercase i folds through uppercase", input: "i", want: "1"},
		{name: "capital L is not a one", input: "L", want: "L"},
		{name: "newlines become spaces", input: "a\nb\r\nc", want: "A B C"},
		{name: "digits untouched", input: "978-0", want: "978-0"},
		{name: "x uppercased", input: "x", want: "X"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewText(t *testing.T) {
	text := NewText("isbn 978O")
	if text.Raw != "isbn 978O" {
		t.Errorf("Raw = %q", text.Raw)
	}
	if text.Upper != "ISBN 978O" {
		t.Errorf("Upper = %q", text.Upper)
	}
	if text.Normalized != "158N 9780" {
		t.Errorf("Normalized = %q", text.Normalized)
	}
}

func texts(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

func TestLabeledCandidates(t *testing.T) {
	t.Run("cuts at separator boundaries only", func(t *testing.T) {
		got := slices.Collect(labeledCandidates(NewText("ISBN 9780134685991 123")))
		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %v", texts(got))
		}
		if got[0].Text != "9780134685991" || got[0].Kind != isbn.KindISBN13 {
			t.Errorf("unexpected candidate %+v", got[0])
		}
	})

	t.Run("isbn10 and isbn13 cuts from one run", func(t *testing.T) {
		got := slices.Collect(labeledCandidates(NewText("ISBN 0306406152 123")))
		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %v", texts(got))
		}
		if got[0].Kind != isbn.KindISBN13 || got[0].Text != "0306406152123" {
			t.Errorf("first candidate = %+v", got[0])
		}
		if got[1].Kind != isbn.KindISBN10 || got[1].Text != "0306406152" {
			t.Errorf("second candidate = %+v", got[1])
		}
	})

	t.Run("one candidate per label", func(t *testing.T) {
		got := slices.Collect(labeledCandidates(NewText("ISBN 0-306-40615-2\nISBN-13 978-0-306-40615-7")))
		want := []string{"0306406152", "9780306406157"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, texts(got))
		}
		for i := range want {
			if got[i].Text != want[i] {
				t.Errorf("candidate %d = %s, want %s", i, got[i].Text, want[i])
			}
		}
	})

	t.Run("no label", func(t *testing.T) {
		if got := slices.Collect(labeledCandidates(NewText("9780134685991"))); len(got) != 0 {
			t.Errorf("expected none, got %v", texts(got))
		}
	})
}

func TestLabeledCandidates_VersionLabels(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "ISBN 13: 978-0-13-468599-1", want: "9780134685991"},
		{input: "ISBN 10: 0-13-468599-7", want: "0134685997"},
		{input: "ISBN-13 9780134685991", want: "9780134685991"},
		{input: "ISBN10 0306406152", want: "0306406152"},
		{input: "isbn 10 - 0306406152", want: "0306406152"},
		{input: "ISBN #13 = 9780306406157", want: "9780306406157"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := slices.Collect(labeledCandidates(NewText(tt.input)))
			if len(got) == 0 || got[0].Text != tt.want {
				t.Errorf("expected first candidate %s, got %v", tt.want, texts(got))
			}
		})
	}
}

func TestMatchAll(t *testing.T) {
	t.Run("span matched by several patterns is yielded once", func(t *testing.T) {
		got := slices.Collect(matchAll("0306406152", pattern10Patterns, isbn.KindISBN10, stripSeparators, 10))
		if len(got) != 1 || got[0].Text != "0306406152" {
			t.Errorf("expected one candidate, got %v", texts(got))
		}
	})

	t.Run("stops when the consumer stops", func(t *testing.T) {
		calls := 0
		clean := func(s string) string {
			calls++
			return stripSeparators(s)
		}
		text := strings.Repeat("0306406152 ", 1000)
		for range matchAll(text, pattern10Patterns, isbn.KindISBN10, clean, 10) {
			break
		}
		if calls != 1 {
			t.Errorf("clean called %d times, want 1", calls)
		}
	})
}

func TestPrefixed13Candidates(t *testing.T) {
	t.Run("ordered by position", func(t *testing.T) {
		got := slices.Collect(prefixed13Candidates(NewText("x 9781861972712 y 978-0-13-468599-1")))
		if len(got) < 2 {
			t.Fatalf("expected at least 2 candidates, got %v", texts(got))
		}
		if got[0].Text != "9781861972712" {
			t.Errorf("first candidate = %s", got[0].Text)
		}
		if got[len(got)-1].Text != "9780134685991" {
			t.Errorf("last candidate = %s", got[len(got)-1].Text)
		}
	})

	t.Run("glued to letters", func(t *testing.T) {
		got := slices.Collect(prefixed13Candidates(NewText("ABC9780134685991XYZ")))
		if len(got) == 0 || got[0].Text != "9780134685991" {
			t.Errorf("expected embedded match, got %v", texts(got))
		}
	})

	t.Run("stray characters between digits", func(t *testing.T) {
		got := slices.Collect(prefixed13Candidates(NewText("9.7.8.0.1.3.4.6.8.5.9.9.1")))
		if len(got) == 0 || got[0].Text != "9780134685991" {
			t.Errorf("expected noisy match, got %v", texts(got))
		}
	})
}

func TestWindow13Candidates(t *testing.T) {
	got := slices.Collect(window13Candidates(NewText("##978 0134 685991##")))
	if len(got) != 1 || got[0].Text != "9780134685991" {
		t.Errorf("expected one window, got %v", texts(got))
	}
}

func TestPattern10Candidates(t *testing.T) {
	got := slices.Collect(pattern10Candidates(NewText("see 0 306 40615 2 and 080442957x")))
	want := []string{"0306406152", "080442957X"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts(got))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("candidate %d = %s, want %s", i, got[i].Text, want[i])
		}
	}
}

func TestConcatCandidates(t *testing.T) {
	got := slices.Collect(concatCandidates(NewText("978a013b4685991")))
	var has13, has10 bool
	for _, c := range got {
		if c.Kind == isbn.KindISBN13 && c.Text == "9780134685991" {
			has13 = true
		}
		if c.Kind == isbn.KindISBN10 {
			has10 = true
		}
	}
	if !has13 || !has10 {
		t.Errorf("expected both window kinds, got %v", texts(got))
	}
	// 13-character windows come before 10-character windows.
	if got[0].Kind != isbn.KindISBN13 {
		t.Errorf("first candidate kind = %s", got[0].Kind)
	}
}

func TestMangledCandidates(t *testing.T) {
	got := slices.Collect(mangledCandidates(NewText("9 7 8 O l 3 4 6 8 5 9 9 I")))
	if len(got) != 1 || got[0].Text != "9780134685991" {
		t.Errorf("expected one window, got %v", texts(got))
	}
}
