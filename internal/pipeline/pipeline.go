package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobmarket/internal/ai"
	"github.com/amishk599/jobmarket/internal/model"
)

// Analyzer turns a composed prompt into an analysis. It never fails; errors
// are carried inside the returned Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) model.Analysis
}

// StepRunner runs one blocking step of the pipeline, for example behind a
// progress indicator.
type StepRunner interface {
	RunStep(label string, fn func())
}

// directRunner runs each step inline.
type directRunner struct{}

func (directRunner) RunStep(_ string, fn func()) { fn() }

// MarketPipeline owns one analysis run:
// search → compose prompt → analyze → notify.
type MarketPipeline struct {
	searcher model.JobSearcher
	params   model.SearchParams
	topic    string
	analyzer Analyzer
	notifier model.Notifier
	steps    StepRunner
	logger   *slog.Logger
}

// NewMarketPipeline creates a pipeline wired with all its dependencies.
// notifier may be nil when the caller handles output itself.
func NewMarketPipeline(
	searcher model.JobSearcher,
	params model.SearchParams,
	topic string,
	analyzer Analyzer,
	notifier model.Notifier,
	logger *slog.Logger,
) *MarketPipeline {
	return &MarketPipeline{
		searcher: searcher,
		params:   params,
		topic:    topic,
		analyzer: analyzer,
		notifier: notifier,
		steps:    directRunner{},
		logger:   logger,
	}
}

// SetStepRunner replaces the inline step runner.
func (p *MarketPipeline) SetStepRunner(r StepRunner) {
	if r == nil {
		r = directRunner{}
	}
	p.steps = r
}

// SearchJobs runs the configured search. Any failure is logged and yields an
// empty slice, so callers cannot tell "no results" from "search failed".
func (p *MarketPipeline) SearchJobs(ctx context.Context) []model.Job {
	var (
		jobs []model.Job
		err  error
	)
	p.steps.RunStep("Searching job postings", func() {
		jobs, err = p.searcher.SearchJobs(ctx, p.params)
	})
	if err != nil {
		p.logger.Error("job search failed", "query", p.params.Query, "error", err)
		return []model.Job{}
	}
	p.logger.Info("jobs found", "count", len(jobs))
	return jobs
}

// ComposePrompt renders the analysis prompt for jobs.
func (p *MarketPipeline) ComposePrompt(jobs []model.Job) (string, error) {
	prompt, err := ai.ComposePrompt(p.topic, jobs)
	if err != nil {
		return "", fmt.Errorf("compose prompt: %w", err)
	}
	p.logger.Debug("prompt composed", "jobs", len(jobs), "chars", len(prompt))
	return prompt, nil
}

// Analyze composes the prompt for jobs and submits it to the analyzer.
func (p *MarketPipeline) Analyze(ctx context.Context, jobs []model.Job) (model.Analysis, error) {
	prompt, err := p.ComposePrompt(jobs)
	if err != nil {
		return model.Analysis{}, err
	}

	var result model.Analysis
	p.steps.RunStep("Generating market analysis", func() {
		result = p.analyzer.Analyze(ctx, prompt)
	})
	result.Topic = p.topic
	result.JobCount = len(jobs)
	return result, nil
}

// Run executes the full pipeline and delivers the analysis to the notifier.
// Upstream failures degrade into the returned Analysis; the error return is
// reserved for prompt rendering and delivery failures.
func (p *MarketPipeline) Run(ctx context.Context) (model.Analysis, error) {
	jobs := p.SearchJobs(ctx)

	result, err := p.Analyze(ctx, jobs)
	if err != nil {
		return result, err
	}

	p.logger.Info("analysis complete",
		"jobs", result.JobCount,
		"chars", len(result.Text),
		"fallback", result.Fallback,
		"failed", result.Err != nil,
	)

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, result); err != nil {
			return result, fmt.Errorf("notify: %w", err)
		}
	}
	return result, nil
}
