package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nao1215/commonword/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step against the run. A returned error stops the pipeline.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Announcer is implemented by steps that print a progress banner before running.
type Announcer interface {
	Announce(run *model.Run) string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps    []Step
	logger   *slog.Logger
	progress io.Writer
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress sets where human-readable progress banners are written.
// Banners are discarded by default.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:    make([]Step, 0),
		progress: io.Discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error, which is
// recorded on the run and returned. Cancellation is checked before each step.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	defer func() {
		run.FinishedAt = time.Now()
	}()

	for i, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Fail(ctx.Err())
			return ctx.Err()
		default:
		}

		if a, ok := step.(Announcer); ok {
			fmt.Fprintf(p.progress, "### - %s\n", a.Announce(run))
		}
		p.logger.Debug("executing step",
			"step", step.Name(),
			"index", i+1,
			"of", p.StepCount(),
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			fmt.Fprintf(p.progress, "!!! - %v\n", err)
			run.Fail(err)
			return err
		}

		fmt.Fprintln(p.progress, "$$$ - Done")
		p.logger.Debug("step completed", "step", step.Name())
		run.Steps = append(run.Steps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
