package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/commonword/internal/blacklist"
	"github.com/nao1215/commonword/internal/cleaner"
	"github.com/nao1215/commonword/internal/matcher"
	"github.com/nao1215/commonword/internal/model"
	"github.com/nao1215/commonword/internal/source"
	"github.com/nao1215/commonword/internal/tokenizer"
)

// Fetcher is the capability FetchStep needs: fetch every URL in order and
// report one result per URL.
type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) []model.SourceResult
}

// LoadLinksStep reads the URLs from the link file.
type LoadLinksStep struct {
	path string
}

// NewLoadLinksStep creates a step reading URLs from path.
func NewLoadLinksStep(path string) *LoadLinksStep {
	return &LoadLinksStep{path: path}
}

// Name returns the step name.
func (s *LoadLinksStep) Name() string { return "load_links" }

// Announce returns the progress banner.
func (s *LoadLinksStep) Announce(_ *model.Run) string {
	return "Reading links from " + s.path
}

// Do loads the link file into run.URLs.
func (s *LoadLinksStep) Do(_ context.Context, run *model.Run) error {
	urls, err := source.Load(s.path)
	if err != nil {
		return err
	}
	run.URLs = urls
	return nil
}

// FetchStep downloads every URL. Individual failures are recorded on the
// run; the step itself never fails.
type FetchStep struct {
	fetcher Fetcher
}

// NewFetchStep creates a fetch step.
func NewFetchStep(fetcher Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return "fetch" }

// Announce returns the progress banner.
func (s *FetchStep) Announce(_ *model.Run) string { return "Fetching each link..." }

// Do fetches run.URLs and adds the results to the run.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	for _, result := range s.fetcher.FetchAll(ctx, run.URLs) {
		run.AddSource(result)
	}
	return nil
}

// CleanStep strips markup from every document in place.
type CleanStep struct {
	cleaner cleaner.Cleaner
}

// NewCleanStep creates a clean step using c.
func NewCleanStep(c cleaner.Cleaner) *CleanStep {
	return &CleanStep{cleaner: c}
}

// Name returns the step name.
func (s *CleanStep) Name() string { return "clean" }

// Announce returns the progress banner.
func (s *CleanStep) Announce(_ *model.Run) string { return "Cleaning responses of junk text..." }

// Do replaces each document's text with its cleaned form.
func (s *CleanStep) Do(_ context.Context, run *model.Run) error {
	for _, doc := range run.Documents {
		if doc.Cleaned {
			continue
		}
		doc.Text = s.cleaner.Clean(doc.Text)
		doc.Cleaned = true
	}
	return nil
}

// TokenizeStep extracts the words of every document. It fails with
// matcher.ErrNoDocuments when no document was fetched, so that an empty
// run never reaches the matching stage.
type TokenizeStep struct {
	minLength int
}

// NewTokenizeStep creates a tokenize step keeping tokens longer than minLength.
func NewTokenizeStep(minLength int) *TokenizeStep {
	return &TokenizeStep{minLength: minLength}
}

// Name returns the step name.
func (s *TokenizeStep) Name() string { return "tokenize" }

// Announce returns the progress banner.
func (s *TokenizeStep) Announce(_ *model.Run) string { return "Extracting words from responses..." }

// Do fills the Tokens of every document.
func (s *TokenizeStep) Do(_ context.Context, run *model.Run) error {
	for _, doc := range run.Documents {
		doc.Tokens = tokenizer.Tokenize(doc.Text, s.minLength)
	}
	if len(run.Documents) == 0 {
		return fmt.Errorf("%w (%d of %d links failed)", matcher.ErrNoDocuments, run.FailedCount(), len(run.Sources))
	}
	return nil
}

// MatchStep selects the reference document's words that are common enough.
type MatchStep struct {
	ratio float64
}

// NewMatchStep creates a match step with the given ratio.
func NewMatchStep(ratio float64) *MatchStep {
	return &MatchStep{ratio: ratio}
}

// Name returns the step name.
func (s *MatchStep) Name() string { return "match" }

// Announce returns the progress banner.
func (s *MatchStep) Announce(_ *model.Run) string {
	return fmt.Sprintf("Finding common words using a ratio of %.2f...", s.ratio)
}

// Do sets run.Candidates, run.Threshold and run.Occurrences.
func (s *MatchStep) Do(_ context.Context, run *model.Run) error {
	documents := run.TokenSets()
	candidates, err := matcher.MatchDocuments(documents, s.ratio)
	if err != nil {
		return err
	}

	reference, others := documents[0], documents[1:]
	counts := matcher.Count(reference, others)
	threshold := matcher.Threshold(s.ratio, len(documents))

	occurrences := make(map[string]int)
	for i, word := range reference {
		if counts[i] >= threshold {
			occurrences[matcher.Fold(word)] = counts[i]
		}
	}

	run.MatchRatio = s.ratio
	run.Threshold = threshold
	run.Candidates = candidates
	run.Occurrences = occurrences
	return nil
}

// DedupeStep collapses case-insensitive duplicates in the candidate list.
type DedupeStep struct{}

// NewDedupeStep creates a dedupe step.
func NewDedupeStep() *DedupeStep {
	return &DedupeStep{}
}

// Name returns the step name.
func (s *DedupeStep) Name() string { return "dedupe" }

// Announce returns the progress banner.
func (s *DedupeStep) Announce(_ *model.Run) string { return "Deduping the list of common words" }

// Do sets run.Words.
func (s *DedupeStep) Do(_ context.Context, run *model.Run) error {
	run.Words = matcher.Dedupe(run.Candidates)
	return nil
}

// WriteStep writes the final word list to the output file.
type WriteStep struct {
	path string
}

// NewWriteStep creates a write step for path.
func NewWriteStep(path string) *WriteStep {
	return &WriteStep{path: path}
}

// Name returns the step name.
func (s *WriteStep) Name() string { return "write" }

// Announce returns the progress banner.
func (s *WriteStep) Announce(_ *model.Run) string {
	return "Writing common words to output file: " + s.path
}

// Do writes run.Words.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	return blacklist.WriteFile(s.path, run.Words)
}
