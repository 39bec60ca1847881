package matcher

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ratio     float64
		documents int
		want      int
	}{
		{name: "ratio one requires every document", ratio: 1.00, documents: 4, want: 4},
		{name: "product is truncated", ratio: 0.67, documents: 3, want: 2},
		{name: "half of three truncates to one", ratio: 0.5, documents: 3, want: 1},
		{name: "zero ratio", ratio: 0, documents: 5, want: 0},
		{name: "ratio above one", ratio: 1.5, documents: 2, want: 3},
		{name: "single document", ratio: 1.00, documents: 1, want: 1},
		{name: "negative ratio is zero", ratio: -2, documents: 3, want: 0},
		{name: "NaN ratio is zero", ratio: math.NaN(), documents: 3, want: 0},
		{name: "huge ratio saturates", ratio: 1e300, documents: 3, want: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Threshold(tt.ratio, tt.documents); got != tt.want {
				t.Errorf("Threshold(%v, %d) = %d, want %d", tt.ratio, tt.documents, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	reference := []string{"alpha", "Bravo", "alpha", "delta"}
	others := [][]string{
		{"ALPHA", "alpha", "alpha"},
		{"bravo"},
		{"charlie"},
	}

	got := Count(reference, others)
	want := []int{2, 2, 2, 1}
	if !slices.Equal(got, want) {
		t.Errorf("Count() = %v, want %v", got, want)
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	t.Run("reference document always counts itself", func(t *testing.T) {
		t.Parallel()

		got := Match([]string{"lonely"}, nil, 1.00)
		if !slices.Equal(got, []string{"lonely"}) {
			t.Errorf("expected single document words to be kept, got %v", got)
		}
	})

	t.Run("ratio one keeps words present everywhere", func(t *testing.T) {
		t.Parallel()

		reference := []string{"shared", "unique", "common"}
		others := [][]string{
			{"shared", "common"},
			{"COMMON", "Shared", "other"},
		}

		got := Match(reference, others, 1.00)
		want := []string{"shared", "common"}
		if !slices.Equal(got, want) {
			t.Errorf("Match() = %v, want %v", got, want)
		}
	})

	t.Run("truncated threshold with three documents", func(t *testing.T) {
		t.Parallel()

		reference := []string{"twice", "once"}
		others := [][]string{
			{"twice"},
			{"nothing"},
		}

		got := Match(reference, others, 0.67)
		want := []string{"twice"}
		if !slices.Equal(got, want) {
			t.Errorf("Match() = %v, want %v", got, want)
		}
	})

	t.Run("repeated matches in one document count once", func(t *testing.T) {
		t.Parallel()

		reference := []string{"word"}
		others := [][]string{
			{"word", "word", "word"},
			{"else"},
		}

		// Two documents out of three contain the word; ratio 1.00 needs three.
		if got := Match(reference, others, 1.00); len(got) != 0 {
			t.Errorf("expected no match, got %v", got)
		}
	})

	t.Run("repeated reference tokens are all kept", func(t *testing.T) {
		t.Parallel()

		reference := []string{"Hello", "hello"}
		others := [][]string{{"HELLO"}}

		got := Match(reference, others, 1.00)
		if !slices.Equal(got, []string{"Hello", "hello"}) {
			t.Errorf("expected both spellings before dedupe, got %v", got)
		}
	})

	t.Run("comparison is ASCII-only case folding", func(t *testing.T) {
		t.Parallel()

		// U+212A KELVIN SIGN lower-cases to "k" under Unicode rules.
		reference := []string{"kelvin"}
		others := [][]string{{"\u212Aelvin"}}

		if got := Match(reference, others, 1.00); len(got) != 0 {
			t.Errorf("expected no ASCII match, got %v", got)
		}
	})

	t.Run("zero ratio keeps every reference token", func(t *testing.T) {
		t.Parallel()

		got := Match([]string{"a1", "b2"}, [][]string{{}}, 0)
		if !slices.Equal(got, []string{"a1", "b2"}) {
			t.Errorf("expected all tokens, got %v", got)
		}
	})
}

func TestMatchDocuments(t *testing.T) {
	t.Parallel()

	t.Run("no documents is an error", func(t *testing.T) {
		t.Parallel()

		_, err := MatchDocuments(nil, 1.00)
		if !errors.Is(err, ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})

	t.Run("first document is the reference", func(t *testing.T) {
		t.Parallel()

		docs := [][]string{
			{"Hello", "world"},
			{"hello", "WORLD", "extra"},
		}

		got, err := MatchDocuments(docs, 1.00)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(got, []string{"Hello", "world"}) {
			t.Errorf("unexpected match %v", got)
		}
	})
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words []string
		want  []string
	}{
		{
			name:  "first spelling wins",
			words: []string{"Hello", "hello", "HELLO"},
			want:  []string{"Hello"},
		},
		{
			name:  "order of first occurrences is kept",
			words: []string{"beta", "alpha", "Beta", "gamma", "ALPHA"},
			want:  []string{"beta", "alpha", "gamma"},
		},
		{
			name:  "adjacent duplicates",
			words: []string{"same", "same", "same", "other", "other"},
			want:  []string{"same", "other"},
		},
		{
			name:  "empty list",
			words: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Dedupe(tt.words); !slices.Equal(got, tt.want) {
				t.Errorf("Dedupe(%v) = %v, want %v", tt.words, got, tt.want)
			}
		})
	}
}
