package pipeline

import (
	"context"

	"github.com/nao1215/commonword/internal/cleaner"
	"github.com/nao1215/commonword/internal/config"
	"github.com/nao1215/commonword/internal/model"
)

// Default builds the generation pipeline for cfg. Steps run in this order:
// load_links, fetch, clean, tokenize, match, dedupe, write. The output file
// is only created by the last step, so a run without documents leaves any
// existing output untouched.
func Default(cfg *config.Config, fetcher Fetcher, opts ...Option) (*Pipeline, error) {
	c, err := cleaner.New(cfg.CleanMode)
	if err != nil {
		return nil, err
	}

	p := New(opts...)
	p.AddSteps(
		NewLoadLinksStep(cfg.LinkFile),
		NewFetchStep(fetcher),
		NewCleanStep(c),
		NewTokenizeStep(cfg.MinWordLength),
		NewMatchStep(cfg.MatchRatio),
		NewDedupeStep(),
		NewWriteStep(cfg.OutputFile),
	)
	return p, nil
}

// Generate runs the default pipeline for cfg and returns the run, which is
// populated as far as the pipeline got even when an error is returned.
func Generate(ctx context.Context, cfg *config.Config, fetcher Fetcher, opts ...Option) (*model.Run, error) {
	run := model.NewRun(cfg.LinkFile, cfg.OutputFile, cfg.MatchRatio)

	p, err := Default(cfg, fetcher, opts...)
	if err != nil {
		run.Fail(err)
		return run, err
	}

	if err := p.Execute(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}
