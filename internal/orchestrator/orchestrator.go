package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/assessd/internal/alignment"
	"github.com/fyrsmithlabs/assessd/internal/corpus"
	"github.com/fyrsmithlabs/assessd/internal/logging"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

// Orchestrator sequences the phases of one assessment run. It is safe to
// reuse across runs; all per-run state lives in the Run it returns.
type Orchestrator struct {
	assembler *corpus.Assembler
	executor  CategoryExecutor
	dedup     *alignment.Deduplicator
	pacer     Pacer
	metrics   *Metrics
	logger    *logging.Logger
}

// New wires an orchestrator. pacer may be nil (no pacing) and logger may be
// nil (no logging).
func New(assembler *corpus.Assembler, executor CategoryExecutor, dedup *alignment.Deduplicator, pacer Pacer, logger *logging.Logger) *Orchestrator {
	if pacer == nil {
		pacer = NopPacer{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		assembler: assembler,
		executor:  executor,
		dedup:     dedup,
		pacer:     pacer,
		metrics:   NewMetrics(),
		logger:    logger,
	}
}

// Execute runs the full lifecycle over the given documents and analysis
// results, reporting progress to notify at each phase boundary. The
// returned Run always reflects the final state, including on error.
func (o *Orchestrator) Execute(ctx context.Context, docs []corpus.Document, analyses map[string]corpus.AnalysisResult, notify ProgressFunc) (*Run, error) {
	run := NewRun()
	ctx = logging.WithRunID(ctx, run.ID)
	started := time.Now()
	o.logger.Info(ctx, "assessment run started", zap.Int("documents", len(docs)))

	// Initialization.
	if err := o.enterPhase(ctx, run, PhaseInitialization, StateRegistered, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	if o.assembler == nil || o.executor == nil {
		return o.fail(ctx, run, started, fmt.Errorf("orchestrator missing assembler or executor"))
	}

	// Document processing.
	if err := o.enterPhase(ctx, run, PhaseDocumentProcessing, StatePreprocessing, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	valid := make([]corpus.Document, 0, len(docs))
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			o.logger.Warn(ctx, "skipping invalid document",
				zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		valid = append(valid, doc)
	}

	// Corpus assembly.
	if err := o.enterPhase(ctx, run, PhaseCorpusAssembly, StatePreprocessing, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	uc := o.assembler.Assemble(ctx, valid, analyses)

	// Category evaluation: the single point of true concurrent work. All
	// results are required before advancing, but per-category failures
	// reduce the set rather than aborting the run.
	if err := o.enterPhase(ctx, run, PhaseCategoryEvaluation, StateActiveAnalysis, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	report, err := o.executor.Execute(ctx, uc)
	if err != nil {
		return o.fail(ctx, run, started, fmt.Errorf("category evaluation: %w", err))
	}
	run.CategoryResults = report.Results
	run.Failures = report.Failures
	for _, failure := range report.Failures {
		o.logger.Warn(ctx, "category evaluation failed, continuing without it",
			zap.String("category", failure.Category), zap.String("reason", failure.Reason))
	}
	if len(report.Results) == 0 {
		return o.fail(ctx, run, started, fmt.Errorf("category evaluation produced no results"))
	}

	// Cross-category alignment: conflict detection joined with the pacer.
	if err := o.enterPhase(ctx, run, PhaseAlignment, StateCrossCategoryAlignment, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	var conflicts []alignment.Conflict
	if err := o.paced(ctx, PhaseAlignment, func(ctx context.Context) error {
		conflicts = alignment.DetectConflicts(run.CategoryResults)
		return nil
	}); err != nil {
		return o.fail(ctx, run, started, err)
	}
	run.Conflicts = conflicts

	// Synthesis: enrichment and deduplication joined with the pacer.
	if err := o.enterPhase(ctx, run, PhaseSynthesis, StateCrossCategoryAlignment, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	var recommendations []scoring.Recommendation
	if err := o.paced(ctx, PhaseSynthesis, func(ctx context.Context) error {
		collected := collectRecommendations(run.CategoryResults)
		enriched := alignment.EnrichRecommendations(collected, conflicts)
		if o.dedup != nil {
			enriched = o.dedup.Dedupe(ctx, enriched)
		}
		recommendations = enriched
		return nil
	}); err != nil {
		return o.fail(ctx, run, started, err)
	}
	run.Recommendations = recommendations

	// Finalization.
	if err := o.enterPhase(ctx, run, PhaseFinalization, StateCompleted, notify); err != nil {
		return o.fail(ctx, run, started, err)
	}
	run.CompletedAt = time.Now()
	o.emit(run, notify, 100, "Assessment complete")
	o.metrics.RecordRun(ctx, run.State, time.Since(started))
	o.logger.Info(ctx, "assessment run completed",
		zap.Int("categories", len(run.CategoryResults)),
		zap.Int("conflicts", len(run.Conflicts)),
		zap.Int("recommendations", len(run.Recommendations)),
		zap.Duration("elapsed", time.Since(started)))
	return run, nil
}

// enterPhase checks for cancellation, applies the state transition, and
// emits the phase's starting progress.
func (o *Orchestrator) enterPhase(ctx context.Context, run *Run, phase Phase, state State, notify ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state != run.State {
		if err := CanTransition(run.State, state); err != nil {
			return err
		}
		run.State = state
	}
	run.CurrentPhase = phase.Name
	o.emit(run, notify, phase.Start, phase.Description)
	return nil
}

// emit reports progress, clamped so the reported sequence never decreases.
func (o *Orchestrator) emit(run *Run, notify ProgressFunc, percent int, description string) {
	if percent < run.Progress {
		percent = run.Progress
	}
	run.Progress = percent
	if notify != nil {
		notify(percent, description)
	}
}

// paced runs work joined with the phase's minimum-duration timer; the phase
// completes only when both have.
func (o *Orchestrator) paced(ctx context.Context, phase Phase, work func(context.Context) error) error {
	phaseStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return work(gctx) })
	g.Go(func() error { return o.pacer.Pace(gctx, phase) })
	err := g.Wait()
	o.metrics.RecordPhase(ctx, phase, time.Since(phaseStart))
	return err
}

// fail moves the run to StateFailed and stops further progress
// notifications.
func (o *Orchestrator) fail(ctx context.Context, run *Run, started time.Time, err error) (*Run, error) {
	run.State = StateFailed
	run.Error = err.Error()
	run.CompletedAt = time.Now()
	o.metrics.RecordRun(ctx, run.State, time.Since(started))
	o.logger.Error(ctx, "assessment run failed", zap.Error(err))
	return run, err
}

// collectRecommendations flattens category recommendations in result order.
func collectRecommendations(results []scoring.CategoryResult) []scoring.Recommendation {
	var recs []scoring.Recommendation
	for _, res := range results {
		recs = append(recs, res.Recommendations...)
	}
	return recs
}
