package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGaps(t *testing.T) {
	gaps := []GapDefinition{
		{
			ID:       "gap-no-backup",
			Label:    "No backup strategy",
			Practice: "RE09",
			Patterns: []string{"no backup"},
		},
	}

	t.Run("phrase pattern matches", func(t *testing.T) {
		results := EvaluateGaps("There is no backup configured for the primary database.", gaps)
		require.Len(t, results, 1)
		assert.True(t, results[0].Matched)
		assert.Equal(t, []string{"no backup"}, results[0].MatchedPatterns)
	})

	t.Run("absent condition does not match", func(t *testing.T) {
		results := EvaluateGaps("Backups run nightly.", gaps)
		require.Len(t, results, 1)
		assert.False(t, results[0].Matched)
	})

	t.Run("whitespace runs are collapsed before matching", func(t *testing.T) {
		results := EvaluateGaps("there is no\n\n   backup at all", gaps)
		require.Len(t, results, 1)
		assert.True(t, results[0].Matched)
	})
}

func TestEvaluateGapsRegexPatterns(t *testing.T) {
	gaps := []GapDefinition{
		{
			ID:       "gap-untested-dr",
			Label:    "DR untested",
			Patterns: []string{`dr (plan|procedure) (is|was) untested`},
		},
	}

	results := EvaluateGaps("The DR plan is untested since the 2023 migration.", gaps)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
}

func TestEvaluateGapsAnyPatternSuffices(t *testing.T) {
	gaps := []GapDefinition{
		{
			ID:       "gap-single-region",
			Patterns: []string{"single region", "no failover"},
		},
	}

	results := EvaluateGaps("everything runs in a single region today", gaps)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
	assert.Equal(t, []string{"single region"}, results[0].MatchedPatterns)
}

func TestEvaluateGapsMalformedPatternSkipped(t *testing.T) {
	gaps := []GapDefinition{
		{
			ID:       "gap-bad",
			Patterns: []string{"([unclosed", "no backup"},
		},
	}

	// A broken declared regex must not prevent the remaining patterns from
	// being evaluated.
	results := EvaluateGaps("no backup configured", gaps)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
	assert.Equal(t, []string{"no backup"}, results[0].MatchedPatterns)
}

func TestEvaluateGapsNoSubstringBleed(t *testing.T) {
	gaps := []GapDefinition{
		{ID: "g", Patterns: []string{"manual deploy"}},
	}

	results := EvaluateGaps("the manuals deployed to the portal", gaps)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
}
