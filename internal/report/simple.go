package report

import (
	"fmt"
	"io"
	"strings"

	applog "github.com/nao1215/commonword/internal/log"
	"github.com/nao1215/commonword/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showSources lists every link with its fetch status.
	showSources bool

	// showWords lists the common words.
	showWords bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowSources configures the writer to list every link.
func WithShowSources(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showSources = show
	}
}

// WithShowWords configures the writer to list the common words.
func WithShowWords(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showWords = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in human-readable format.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder
	summary := model.NewSummary(run)

	w.writeHeader(&sb, summary)
	if w.showSources {
		w.writeSources(&sb, run)
	}
	if w.showWords {
		w.writeWords(&sb, run)
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run settings and counts.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        COMMON WORD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Link File:    %s\n", s.LinkFile)
	fmt.Fprintf(sb, "Output File:  %s\n", s.OutputFile)
	fmt.Fprintf(sb, "Match Ratio:  %.2f\n", s.MatchRatio)
	fmt.Fprintf(sb, "Threshold:    %d\n", s.Threshold)
	fmt.Fprintf(sb, "Links:        %d (%d fetched, %d failed)\n", s.URLCount, s.Fetched, s.Failed)
	fmt.Fprintf(sb, "Common Words: %d\n", s.WordCount)

	if s.Succeeded() {
		sb.WriteString("Status:       Complete\n")
	} else {
		fmt.Fprintf(sb, "Status:       ERROR - %s\n", s.Error)
	}
	sb.WriteString("\n")
}

// writeSources writes one line per link.
func (w *SimpleWriter) writeSources(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nSOURCES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, src := range run.Sources {
		url, _ := applog.RedactURL(src.URL)
		indicator := "+"
		if !src.OK() {
			indicator = "!"
		}
		fmt.Fprintf(sb, "  [%s] %s (%s", indicator, url, src.Status)
		if src.StatusCode != 0 {
			fmt.Fprintf(sb, " %d", src.StatusCode)
		}
		sb.WriteString(")\n")
	}
	sb.WriteString("\n")
}

// writeWords writes the common words, one per line.
func (w *SimpleWriter) writeWords(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nCOMMON WORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(run.Words) == 0 {
		sb.WriteString("  No common words found\n\n")
		return
	}
	for _, word := range run.Words {
		fmt.Fprintf(sb, "  %s\n", word)
	}
	sb.WriteString("\n")
}
