// Package blacklist reads and writes word lists: plain text, one word per
// line, each line terminated by a newline.
//
// Writing stops at the first error. A blacklist that is silently missing
// its tail would let common words through downstream filters, so partial
// output is reported as a failure instead of a warning.
package blacklist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrEmptyPath is returned when no output path is given.
	ErrEmptyPath = errors.New("output path is empty")

	// ErrCreate is returned when the output file cannot be created.
	ErrCreate = errors.New("could not create output file")

	// ErrWrite is returned when a word cannot be written.
	ErrWrite = errors.New("could not write to output file")
)

// Write writes words to w, one per line.
func Write(w io.Writer, words []string) error {
	bw := bufio.NewWriter(w)
	for i, word := range words {
		if _, err := bw.WriteString(word); err != nil {
			return fmt.Errorf("%w: word %d (%q): %w", ErrWrite, i+1, word, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: word %d (%q): %w", ErrWrite, i+1, word, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFile creates or truncates the file at path and writes words to it.
func WriteFile(path string, words []string) (err error) {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrCreate, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	return Write(f, words)
}

// ReadFile loads a word list, skipping blank lines.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
