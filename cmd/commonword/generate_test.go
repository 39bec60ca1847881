package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/commonword/internal/matcher"
	"github.com/nao1215/commonword/internal/source"
)

// newPageServer serves each body in pages at its key.
func newPageServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for path, body := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// writeLinkFile writes the URLs of paths on server into a link file.
func writeLinkFile(t *testing.T, dir string, server *httptest.Server, paths ...string) string {
	t.Helper()

	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString(server.URL + p + "\n")
	}
	path := filepath.Join(dir, "links.txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runRoot executes the root command with args and returns stdout, stderr
// and the error.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", writeEmptyConfig(t)}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestGenerateCommand(t *testing.T) {
	t.Parallel()

	t.Run("writes common words of every page", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{
			"/a": "<html><body><p>Repeated repeated text here</p></body></html>",
			"/b": "<html><body><p>Some repeated text content</p></body></html>",
		})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/a", "/b")
		output := filepath.Join(dir, "blacklist.txt")

		stdout, _, err := runRoot(t, links, output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := readLines(t, output)
		if len(lines) != 1 || lines[0] != "Repeated" {
			t.Errorf("expected [Repeated], got %v", lines)
		}

		for _, want := range []string{
			startBanner,
			"### - Reading links from " + links,
			"### - Finding common words using a ratio of 1.00...",
			"$$$ - Done",
			completeBanner,
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected stdout to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("ratio controls the threshold", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{
			"/a": "alpha bravo charlie",
			"/b": "alpha bravo",
			"/c": "alpha delta",
		})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/a", "/b", "/c")

		everywhere := filepath.Join(dir, "all.txt")
		if _, _, err := runRoot(t, links, everywhere, "-r", "abc"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readLines(t, everywhere); len(got) != 1 || got[0] != "alpha" {
			t.Errorf("expected invalid ratio to behave like 1.00, got %v", got)
		}

		most := filepath.Join(dir, "most.txt")
		if _, _, err := runRoot(t, links, most, "--match-ratio", "0.67"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readLines(t, most); strings.Join(got, ",") != "alpha,bravo" {
			t.Errorf("expected [alpha bravo], got %v", got)
		}
	})

	t.Run("failed links are reported and skipped", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{
			"/a": "hello world",
			"/b": "HELLO there",
		})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/missing", "/a", "/b")
		output := filepath.Join(dir, "out.txt")

		stdout, stderr, err := runRoot(t, links, output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readLines(t, output); len(got) != 1 || got[0] != "hello" {
			t.Errorf("expected [hello], got %v", got)
		}
		if !strings.Contains(stderr, server.URL+"/missing") || !strings.Contains(stderr, "404") {
			t.Errorf("expected a warning naming the failed URL and status, got:\n%s", stderr)
		}
		if !strings.Contains(stdout, "from 2 of 3 links") {
			t.Errorf("expected fetched count in output, got:\n%s", stdout)
		}
	})

	t.Run("extra headers are sent", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "tenant "+r.Header.Get("X-Tenant"))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/")
		output := filepath.Join(dir, "out.txt")

		if _, _, err := runRoot(t, links, output, "-H", "X-Tenant: northwind"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readLines(t, output); strings.Join(got, ",") != "tenant,northwind" {
			t.Errorf("expected header value in output, got %v", got)
		}
	})

	t.Run("no documents is fatal and leaves no output", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/gone", "/also-gone")
		output := filepath.Join(dir, "out.txt")

		stdout, _, err := runRoot(t, links, output)
		if !errors.Is(err, matcher.ErrNoDocuments) {
			t.Fatalf("expected ErrNoDocuments, got %v", err)
		}
		if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
			t.Errorf("expected no output file, stat returned %v", statErr)
		}
		if strings.Contains(stdout, completeBanner) {
			t.Error("expected no completion banner")
		}
	})

	t.Run("missing link file is fatal", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, source.ErrOpen) {
			t.Errorf("expected ErrOpen, got %v", err)
		}
	})

	t.Run("double dash treats a subcommand name as the link file", func(t *testing.T) {
		t.Parallel()

		found, _, err := NewRootCmd().Find([]string{"--", "history"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found.Name() != "commonword" {
			t.Errorf("expected the root command, got %q", found.Name())
		}

		_, _, err = runRoot(t, "--", "history")
		if !errors.Is(err, source.ErrOpen) {
			t.Errorf("expected the link file \"history\" to be opened, got %v", err)
		}
	})

	t.Run("requires a link file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := runRoot(t); err == nil {
			t.Error("expected error without arguments")
		}
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "links.txt", "--mode", "regex")
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("report is written", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{"/a": "hello world"})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/a")
		reportPath := filepath.Join(dir, "report.json")

		if _, _, err := runRoot(t, links, filepath.Join(dir, "out.txt"), "--report", reportPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(data), `"words"`) {
			t.Errorf("expected JSON report, got:\n%s", data)
		}
	})

	t.Run("report flag is repeatable", func(t *testing.T) {
		t.Parallel()

		server := newPageServer(t, map[string]string{"/a": "hello world"})
		dir := t.TempDir()
		links := writeLinkFile(t, dir, server, "/a")
		mdPath := filepath.Join(dir, "report.md")
		txtPath := filepath.Join(dir, "report.txt")

		stdout, _, err := runRoot(t, links, filepath.Join(dir, "out.txt"),
			"--report", mdPath, "--report", txtPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for path, want := range map[string]string{
			mdPath:  "# Common Word Report",
			txtPath: "COMMON WORD REPORT",
		} {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected report file: %v", err)
			}
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %q in %s", want, path)
			}
		}
		if !strings.Contains(stdout, "Report written to "+mdPath+", "+txtPath) {
			t.Errorf("expected both reports to be announced, got:\n%s", stdout)
		}
	})
}
