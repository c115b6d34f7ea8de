package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/assessd/internal/corpus"
	"github.com/fyrsmithlabs/assessd/internal/logging"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

// ExecutionReport is the outcome of one category-evaluation fan-out.
// Failures lists categories that could not be evaluated; the run continues
// with Results alone.
type ExecutionReport struct {
	Results  []scoring.CategoryResult
	Failures []CategoryFailure
}

// CategoryExecutor evaluates every configured category against the corpus.
// A returned error aborts the run; per-category problems belong in the
// report's Failures instead.
type CategoryExecutor interface {
	Execute(ctx context.Context, uc *corpus.UnifiedCorpus) (*ExecutionReport, error)
}

// defaultEvaluationConcurrency bounds the category fan-out.
const defaultEvaluationConcurrency = 5

// ScoringExecutor evaluates categories with the deterministic scoring
// engine. Definitions are loaded once per run before any evaluation starts;
// a missing definition aborts the run rather than silently shrinking it.
type ScoringExecutor struct {
	source      scoring.DefinitionSource
	engine      *scoring.Engine
	categories  []string
	concurrency int
	logger      *logging.Logger
}

// NewScoringExecutor builds an executor over the given definition source.
// When categories is empty the source's full catalog is used.
func NewScoringExecutor(source scoring.DefinitionSource, categories []string, logger *logging.Logger) *ScoringExecutor {
	if len(categories) == 0 {
		categories = source.Categories()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScoringExecutor{
		source:      source,
		engine:      scoring.NewEngine(),
		categories:  categories,
		concurrency: defaultEvaluationConcurrency,
		logger:      logger,
	}
}

// Execute loads every category definition, then evaluates the corpus
// sections concurrently, one goroutine per category. Results come back in
// configured category order regardless of completion order.
func (e *ScoringExecutor) Execute(ctx context.Context, uc *corpus.UnifiedCorpus) (*ExecutionReport, error) {
	if len(e.categories) == 0 {
		return nil, fmt.Errorf("no categories configured")
	}

	defs := make([]*scoring.CategoryDefinition, len(e.categories))
	for i, category := range e.categories {
		def, err := e.source.Load(category)
		if err != nil {
			return nil, fmt.Errorf("loading definition for %s: %w", category, err)
		}
		defs[i] = def
	}

	sections := uc.Sections()
	results := make([]scoring.CategoryResult, len(e.categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, def := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ctx := logging.WithCategory(gctx, def.Category)
			results[i] = e.engine.ComputeSections(sections, def)
			e.logger.Debug(ctx, "category evaluated",
				zap.Float64("maturity_percent", results[i].OverallMaturityPercent))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ExecutionReport{Results: results}, nil
}
