// Package source reads the list of URLs a blacklist is built from.
//
// The link file is plain text with one URL per line. Lines are trimmed and
// empty lines are skipped; nothing else is validated here, so a malformed URL
// surfaces later as a fetch failure for that line only.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath makes Load read from standard input.
const StdinPath = "-"

// ErrOpen is returned when the link file cannot be opened.
var ErrOpen = errors.New("could not open link file")

// maxLineSize bounds a single line; long signed URLs exceed bufio's 64KB default.
const maxLineSize = 1024 * 1024

// Load reads the URLs from the file at path, or from os.Stdin when path is StdinPath.
func Load(path string) ([]string, error) {
	if path == StdinPath {
		return Read(os.Stdin)
	}

	f, err := os.Open(path) //nolint:gosec // User-provided link file path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read returns the trimmed, non-empty lines of r in order.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	urls := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read link file: %w", err)
	}
	return urls, nil
}
