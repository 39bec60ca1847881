package model

import "time"

// Summary is a flat, storable view of a Run. It drops the documents and
// tokens and keeps what a person reviewing the run wants to see.
type Summary struct {
	LinkFile   string        `json:"linkFile"`
	OutputFile string        `json:"outputFile"`
	MatchRatio float64       `json:"matchRatio"`
	Threshold  int           `json:"threshold"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	URLCount   int           `json:"urlCount"`
	Fetched    int           `json:"fetched"`
	Failed     int           `json:"failed"`
	WordCount  int           `json:"wordCount"`
	Error      string        `json:"error,omitempty"`

	// StatusCounts counts sources per status.
	StatusCounts map[SourceStatus]int `json:"statusCounts"`
}

// NewSummary creates a Summary from run.
func NewSummary(run *Run) *Summary {
	counts := make(map[SourceStatus]int)
	for _, s := range run.Sources {
		counts[s.Status]++
	}

	return &Summary{
		LinkFile:     run.LinkFile,
		OutputFile:   run.OutputFile,
		MatchRatio:   run.MatchRatio,
		Threshold:    run.Threshold,
		StartedAt:    run.StartedAt,
		Duration:     run.Duration(),
		URLCount:     len(run.URLs),
		Fetched:      run.FetchedCount(),
		Failed:       run.FailedCount(),
		WordCount:    len(run.Words),
		Error:        run.ErrorMessage,
		StatusCounts: counts,
	}
}

// Succeeded reports whether the run finished without error.
func (s *Summary) Succeeded() bool {
	return s.Error == ""
}
