package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	applog "github.com/nao1215/commonword/internal/log"
	"github.com/nao1215/commonword/internal/matcher"
	"github.com/nao1215/commonword/internal/model"
)

// statusOrder is the display order of source statuses.
var statusOrder = []model.SourceStatus{
	model.SourceFetched,
	model.SourceHTTPError,
	model.SourceRequestFailed,
	model.SourceDecodeFailed,
	model.SourceSkipped,
}

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewSummary(run)

	w.writeHeader(md, summary)
	w.writeSources(md, run, summary)
	w.writeWords(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run settings and outcome.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("Common Word Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Link File", "`" + s.LinkFile + "`"},
			{"Output File", "`" + s.OutputFile + "`"},
			{"Run Date", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Duration.Round(time.Millisecond).String()},
			{"Match Ratio", strconv.FormatFloat(s.MatchRatio, 'f', 2, 64)},
			{"Threshold", fmt.Sprintf("%d of %d documents", s.Threshold, s.Fetched)},
			{"Common Words", strconv.Itoa(s.WordCount)},
			{"Status", statusText(s)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, s)
}

// statusText returns the outcome of the run for the header table.
func statusText(s *model.Summary) string {
	if !s.Succeeded() {
		return "❌ Error - " + s.Error
	}
	return "✅ Complete"
}

// writeAlert writes an alert describing how reliable the word list is.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case !s.Succeeded():
		md.Cautionf("The run failed and no blacklist was written: %s", s.Error)
	case s.Fetched == 1:
		md.Importantf("Only one document was fetched, so every word longer than the minimum length was kept.")
	case s.Failed > 0:
		md.Warningf("%d of %d links could not be fetched. The threshold is based on the %d documents that were.",
			s.Failed, s.URLCount, s.Fetched)
	case s.WordCount == 0:
		md.Note("No word met the threshold. Try a lower match ratio.")
	default:
		md.Tip("Every link was fetched.")
	}
	md.PlainText("")
}

// writeSources writes the per-link fetch results.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, run *model.Run, s *model.Summary) {
	md.H2("Sources")
	md.PlainText("")

	if len(run.Sources) == 0 {
		md.PlainText("No links were fetched.")
		md.PlainText("")
		return
	}

	if s.Failed > 0 {
		w.writePieChart(md, s)
	}

	rows := make([][]string, len(run.Sources))
	for i, src := range run.Sources {
		code := "-"
		if src.StatusCode != 0 {
			code = strconv.Itoa(src.StatusCode)
		}
		detail := src.ErrorMessage
		if src.Truncated && detail == "" {
			detail = "truncated at size limit"
		}
		if detail == "" {
			detail = "-"
		}
		url, _ := applog.RedactURL(src.URL)

		rows[i] = []string{
			strconv.Itoa(i + 1),
			truncateString(url, 60),
			string(src.Status),
			code,
			strconv.Itoa(src.Bytes),
			truncateString(detail, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Status", "Code", "Bytes", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of source statuses.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Results"),
		piechart.WithShowData(true),
	)

	for _, status := range statusOrder {
		if n := s.StatusCounts[status]; n > 0 {
			chart.LabelAndIntValue(string(status), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeWords writes the common words with the number of documents each
// was found in.
func (w *MarkdownWriter) writeWords(md *markdown.Markdown, run *model.Run) {
	md.H2("Common Words")
	md.PlainText("")

	if len(run.Words) == 0 {
		md.PlainText("No common words found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Words))
	for i, word := range run.Words {
		documents := "-"
		if n, ok := run.Occurrences[matcher.Fold(word)]; ok {
			documents = strconv.Itoa(n)
		}
		rows[i] = []string{"`" + word + "`", documents}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Word", "Documents"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [commonword](https://github.com/nao1215/commonword)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
