package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one url per line",
			input: "http://a.example\nhttp://b.example\n",
			want:  []string{"http://a.example", "http://b.example"},
		},
		{
			name:  "blank lines are skipped",
			input: "\nhttp://a.example\n\n   \nhttp://b.example",
			want:  []string{"http://a.example", "http://b.example"},
		},
		{
			name:  "whitespace and CRLF are trimmed",
			input: "  http://a.example  \r\n\thttp://b.example\r\n",
			want:  []string{"http://a.example", "http://b.example"},
		},
		{
			name:  "malformed entries are kept",
			input: "not a url\nhttp://ok.example",
			want:  []string{"not a url", "http://ok.example"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "links.txt")
		if err := os.WriteFile(path, []byte("http://a.example\nhttp://b.example\n"), 0600); err != nil {
			t.Fatal(err)
		}

		urls, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Errorf("expected 2 urls, got %v", urls)
		}
	})

	t.Run("missing file returns ErrOpen", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		if !errors.Is(err, ErrOpen) {
			t.Errorf("expected ErrOpen, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected the underlying not-exist error to be wrapped, got %v", err)
		}
	})
}
