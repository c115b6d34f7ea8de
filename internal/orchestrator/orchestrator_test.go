package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/assessd/internal/alignment"
	"github.com/fyrsmithlabs/assessd/internal/corpus"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

type stubExecutor struct {
	report *ExecutionReport
	err    error
}

func (s *stubExecutor) Execute(context.Context, *corpus.UnifiedCorpus) (*ExecutionReport, error) {
	return s.report, s.err
}

type progressRecorder struct {
	percents []int
}

func (r *progressRecorder) notify(percent int, _ string) {
	r.percents = append(r.percents, percent)
}

func testDocs() []corpus.Document {
	return []corpus.Document{
		{ID: "doc-1", Category: corpus.CategoryArchitecture, Filename: "arch.md", RawText: "Multi-region failover with nightly backups."},
	}
}

func testOrchestrator(executor CategoryExecutor) *Orchestrator {
	assembler := corpus.NewAssembler(nil, corpus.Budgets{})
	dedup := alignment.NewDeduplicator(nil, 0.90, nil)
	return New(assembler, executor, dedup, nil, nil)
}

func TestExecuteProgressMonotonicEndsAtHundred(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{{Category: "reliability", OverallMaturityPercent: 80}},
	}}
	recorder := &progressRecorder{}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, recorder.notify)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, run.State)
	assert.Equal(t, 100, run.Progress)

	require.NotEmpty(t, recorder.percents)
	for i := 1; i < len(recorder.percents); i++ {
		assert.GreaterOrEqual(t, recorder.percents[i], recorder.percents[i-1])
	}
	assert.Equal(t, 100, recorder.percents[len(recorder.percents)-1])
}

func TestExecuteCollectsResultsConflictsAndRecommendations(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{
			{
				Category: "cost_optimization",
				Recommendations: []scoring.Recommendation{
					{Title: "Downsize over-provisioned compute", SourceCategory: "cost_optimization"},
				},
			},
			{
				Category: "reliability",
				Recommendations: []scoring.Recommendation{
					{Title: "Enable zone redundancy", SourceCategory: "reliability"},
				},
			},
		},
	}}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, run.CategoryResults, 2)
	require.Len(t, run.Conflicts, 1)
	assert.Equal(t, alignment.ConflictTradeoff, run.Conflicts[0].Type)

	require.Len(t, run.Recommendations, 2)
	assert.NotEmpty(t, run.Recommendations[0].CrossCategoryConsiderations)
}

func TestExecuteCancelledBeforeStart(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{{Category: "reliability"}},
	}}
	recorder := &progressRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := testOrchestrator(executor).Execute(ctx, testDocs(), nil, recorder.notify)
	require.Error(t, err)
	assert.Equal(t, StateFailed, run.State)
	assert.Empty(t, recorder.percents)
	assert.NotEmpty(t, run.Error)
}

func TestExecuteExecutorFailureFailsRun(t *testing.T) {
	executor := &stubExecutor{err: errors.New("definitions unreadable")}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, StateFailed, run.State)
}

func TestExecutePartialFailuresProceed(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{{Category: "reliability", OverallMaturityPercent: 60}},
		Failures: []CategoryFailure{
			{Category: "security", Reason: "model endpoint timed out"},
		},
	}}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, run.State)
	assert.Len(t, run.CategoryResults, 1)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, "security", run.Failures[0].Category)
}

func TestExecuteAllCategoriesFailedFailsRun(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Failures: []CategoryFailure{{Category: "reliability", Reason: "boom"}},
	}}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, StateFailed, run.State)
}

func TestExecuteSkipsInvalidDocuments(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{{Category: "reliability"}},
	}}
	docs := append(testDocs(), corpus.Document{ID: "", Category: "bogus"})

	run, err := testOrchestrator(executor).Execute(context.Background(), docs, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, run.State)
}

func TestExecuteDeduplicatesRecommendations(t *testing.T) {
	executor := &stubExecutor{report: &ExecutionReport{
		Results: []scoring.CategoryResult{
			{
				Category: "reliability",
				Recommendations: []scoring.Recommendation{
					{Title: "alpha beta gamma delta epsilon zeta eta theta iota kappa", SourceCategory: "reliability"},
					{Title: "alpha alpha beta gamma delta epsilon zeta eta theta iota kappa", SourceCategory: "reliability"},
				},
			},
		},
	}}

	run, err := testOrchestrator(executor).Execute(context.Background(), testDocs(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, run.Recommendations, 1)
}

func TestExecuteEndToEndWithScoringExecutor(t *testing.T) {
	executor := NewScoringExecutor(scoring.NewEmbeddedSource(), nil, nil)
	recorder := &progressRecorder{}
	docs := []corpus.Document{
		{
			ID:       "arch-1",
			Category: corpus.CategoryArchitecture,
			Filename: "overview.md",
			RawText:  "The platform runs across availability zones with automated failover, health probes, and nightly backup verification.",
		},
		{
			ID:       "case-1",
			Category: corpus.CategoryCase,
			Filename: "incident-42.md",
			RawText:  "Outage traced to a single-instance database with no replica.",
		},
	}

	run, err := testOrchestrator(executor).Execute(context.Background(), docs, nil, recorder.notify)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, run.State)
	assert.NotEmpty(t, run.CategoryResults)
	assert.Equal(t, 100, recorder.percents[len(recorder.percents)-1])
}
