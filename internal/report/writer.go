package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/commonword/internal/model"
)

// ErrWriteReport is returned when a report file cannot be written.
var ErrWriteReport = errors.New("failed to write report")

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the run summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// NewWriterFor returns the writer matching the extension of path:
// .json gives JSON, .txt gives plain text, anything else Markdown.
func NewWriterFor(path string, output io.Writer) Writer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONWriter(output, WithPrettyPrint())
	case ".txt":
		return NewSimpleWriter(output, WithShowSources(true))
	default:
		return NewMarkdownWriter(output)
	}
}

// WriteFile writes a report for run to path, creating or truncating it.
func WriteFile(path string, run *model.Run) error {
	return WriteFiles([]string{path}, run)
}

// WriteFiles writes one report per distinct path, each in the format chosen
// by NewWriterFor. Files are created before anything is written, so an
// uncreatable path leaves the others untouched.
func WriteFiles(paths []string, run *model.Run) (err error) {
	files := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("%w %s: %w", ErrWriteReport, f.Name(), closeErr)
			}
		}
	}()

	seen := make(map[string]struct{}, len(paths))
	writers := make([]Writer, 0, len(paths))
	for _, path := range paths {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrWriteReport, path, err)
		}
		files = append(files, f)
		writers = append(writers, NewWriterFor(path, f))
	}

	if _, err := NewMultiWriter(writers...).Write(run); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}
