// Package report writes summaries of a blacklist generation run.
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: a Markdown document with source and word tables
//   - JSONWriter: structured JSON for other tools
//
// WriteFile picks the format from the file extension.
package report
