package model

import (
	"time"
)

// Document is the text of one successfully fetched URL. Text starts as the
// raw body and is replaced by its cleaned form during the clean stage.
type Document struct {
	// URL the document was fetched from.
	URL string

	// Text is the document body, raw before cleaning and cleaned after.
	Text string

	// Cleaned is set once the cleaner has run on Text.
	Cleaned bool

	// Tokens are the words extracted from the cleaned text, in order of
	// appearance, duplicates included.
	Tokens []string
}

// Run carries the state of one generation run through the pipeline.
type Run struct {
	// LinkFile is the path the URLs were read from.
	LinkFile string `json:"linkFile"`

	// OutputFile is the path the blacklist is written to.
	OutputFile string `json:"outputFile"`

	// MatchRatio is the configured ratio.
	MatchRatio float64 `json:"matchRatio"`

	// Threshold is the absolute number of documents a word had to appear in.
	Threshold int `json:"threshold"`

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// URLs are the lines read from the link file.
	URLs []string `json:"-"`

	// Sources holds one result per URL, in input order.
	Sources []SourceResult `json:"sources"`

	// Documents are the successfully fetched documents, in input order.
	// Documents[0] is the reference document for matching.
	Documents []*Document `json:"-"`

	// Candidates is the matcher output before deduplication.
	Candidates []string `json:"-"`

	// Words is the final, deduplicated common-word list.
	Words []string `json:"words"`

	// Occurrences maps a case-folded word to the number of documents it was found in.
	Occurrences map[string]int `json:"occurrences,omitempty"`

	// Steps lists the pipeline steps that completed.
	Steps []string `json:"steps"`

	// Err is the error that stopped the run, if any.
	Err error `json:"-"`

	// ErrorMessage is Err as text.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run for the given link and output files.
func NewRun(linkFile, outputFile string, ratio float64) *Run {
	return &Run{
		LinkFile:    linkFile,
		OutputFile:  outputFile,
		MatchRatio:  ratio,
		StartedAt:   time.Now(),
		Sources:     make([]SourceResult, 0),
		Documents:   make([]*Document, 0),
		Words:       make([]string, 0),
		Occurrences: make(map[string]int),
		Steps:       make([]string, 0),
	}
}

// AddSource appends a fetch result. Successful results also become documents.
func (r *Run) AddSource(result SourceResult) {
	if result.Err != nil && result.ErrorMessage == "" {
		result.ErrorMessage = result.Err.Error()
	}
	r.Sources = append(r.Sources, result)
	if result.OK() {
		r.Documents = append(r.Documents, &Document{URL: result.URL, Text: result.Body})
	}
}

// FetchedCount returns the number of URLs that produced a document.
func (r *Run) FetchedCount() int {
	return len(r.Documents)
}

// FailedCount returns the number of URLs that did not produce a document.
func (r *Run) FailedCount() int {
	failed := 0
	for _, s := range r.Sources {
		if !s.OK() {
			failed++
		}
	}
	return failed
}

// TokenSets returns the token sequence of every document, in document order.
func (r *Run) TokenSets() [][]string {
	sets := make([][]string, len(r.Documents))
	for i, doc := range r.Documents {
		sets[i] = doc.Tokens
	}
	return sets
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Fail records the error that stopped the run.
func (r *Run) Fail(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
