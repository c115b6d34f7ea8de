package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/assessd/internal/corpus"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

func TestScoringExecutorEvaluatesAllCategories(t *testing.T) {
	source := scoring.NewEmbeddedSource()
	executor := NewScoringExecutor(source, nil, nil)
	uc := &corpus.UnifiedCorpus{
		Narrative: "The deployment spans multiple availability zones with automated failover and backups.",
	}

	report, err := executor.Execute(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, report.Results, len(source.Categories()))
	assert.Empty(t, report.Failures)

	// Results come back in configured category order.
	for i, category := range source.Categories() {
		assert.Equal(t, category, report.Results[i].Category)
	}
}

func TestScoringExecutorUnknownCategory(t *testing.T) {
	executor := NewScoringExecutor(scoring.NewEmbeddedSource(), []string{"no_such_category"}, nil)

	_, err := executor.Execute(context.Background(), &corpus.UnifiedCorpus{})
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrDefinitionNotFound)
}

func TestScoringExecutorNoCategories(t *testing.T) {
	executor := NewScoringExecutor(scoring.NewFSSource(t.TempDir()), nil, nil)

	_, err := executor.Execute(context.Background(), &corpus.UnifiedCorpus{})
	assert.Error(t, err)
}

func TestScoringExecutorCancelledContext(t *testing.T) {
	executor := NewScoringExecutor(scoring.NewEmbeddedSource(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Execute(ctx, &corpus.UnifiedCorpus{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoringExecutorDeterministic(t *testing.T) {
	executor := NewScoringExecutor(scoring.NewEmbeddedSource(), []string{"reliability"}, nil)
	uc := &corpus.UnifiedCorpus{
		Narrative: "Zone redundancy, health probes, and disaster recovery drills are in place.",
	}

	first, err := executor.Execute(context.Background(), uc)
	require.NoError(t, err)
	second, err := executor.Execute(context.Background(), uc)
	require.NoError(t, err)
	assert.Equal(t, first.Results, second.Results)
}
