package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFromCoverage(t *testing.T) {
	tests := []struct {
		name       string
		mode       ScoringMode
		coverage   float64
		anyMatched bool
		fullMatch  bool
		want       int
	}{
		{"nothing matched scores zero", ModeProportional, 0, false, false, 0},
		{"proportional full", ModeProportional, 1.0, true, true, 5},
		{"proportional partial", ModeProportional, 0.6, true, false, 3},
		{"tiered full", ModeTiered, 1.0, true, true, 5},
		{"tiered three quarters", ModeTiered, 0.75, true, false, 4},
		{"tiered just under three quarters stays below", ModeTiered, 0.7495, true, false, 3},
		{"tiered just under half stays below", ModeTiered, 0.4995, true, false, 2},
		{"tiered half", ModeTiered, 0.5, true, false, 3},
		{"tiered quarter", ModeTiered, 0.25, true, false, 2},
		{"tiered floor", ModeTiered, 0.1, true, false, 1},
		{"tiered full coverage without full match falls through", ModeTiered, 1.0, true, false, 4},
		{"binary full", ModeBinary, 1.0, true, true, 5},
		{"binary above half", ModeBinary, 0.6, true, false, 4},
		{"binary below half", ModeBinary, 0.3, true, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreFromCoverage(tt.mode, tt.coverage, tt.anyMatched, tt.fullMatch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScorePracticeScoringBlock(t *testing.T) {
	practice := &PracticeDefinition{
		Code:   "RE05",
		Title:  "Redundancy",
		Weight: 1.0,
		Scoring: &ScoringBlock{
			Mode:    "proportional",
			Signals: []string{"redundancy", "failover"},
			SignalAliases: map[string][]string{
				"failover": {"fail over"},
			},
		},
	}

	t.Run("alias counts for canonical signal", func(t *testing.T) {
		ps := scorePractice(practice, "we fail over to the standby region", nil)
		assert.Equal(t, []string{"failover"}, ps.MatchedSignals)
		assert.InDelta(t, 0.5, ps.Coverage, 1e-9)
		assert.Equal(t, 3, ps.Score)
	})

	t.Run("signal weights shift coverage", func(t *testing.T) {
		weighted := &PracticeDefinition{
			Code:   "RE04",
			Weight: 1.0,
			Scoring: &ScoringBlock{
				Mode:          "proportional",
				Signals:       []string{"slo", "sla"},
				SignalWeights: map[string]float64{"slo": 3.0},
			},
		}
		ps := scorePractice(weighted, "the slo is 99.9%", nil)
		assert.InDelta(t, 0.75, ps.Coverage, 1e-9)
		assert.Equal(t, 4, ps.Score)
	})

	t.Run("tiered coverage just under a boundary stays in the lower tier", func(t *testing.T) {
		tiered := &PracticeDefinition{
			Code:   "RE06",
			Weight: 1.0,
			Scoring: &ScoringBlock{
				Mode:          "tiered",
				Signals:       []string{"autoscaling", "load test"},
				SignalWeights: map[string]float64{"autoscaling": 2.998, "load test": 1.002},
			},
		}
		ps := scorePractice(tiered, "autoscaling is enabled on the web tier", nil)
		assert.InDelta(t, 0.7495, ps.Coverage, 1e-4)
		assert.Equal(t, 3, ps.Score)
	})

	t.Run("weight override applies", func(t *testing.T) {
		w := 2.5
		ps := scorePractice(practice, "redundancy everywhere", &w)
		assert.Equal(t, 2.5, ps.Weight)
	})

	t.Run("zero declared signals never credited", func(t *testing.T) {
		empty := &PracticeDefinition{Code: "X", Weight: 1, Scoring: &ScoringBlock{Mode: "tiered"}}
		ps := scorePractice(empty, "redundancy failover backup", nil)
		assert.Equal(t, 0, ps.Score)
		assert.Zero(t, ps.Coverage)
	})
}

func TestScorePracticeLegacy(t *testing.T) {
	practice := &PracticeDefinition{
		Code:    "RE09",
		Weight:  1.0,
		Signals: []string{"backup", "restore", "failover", "replication"},
	}

	ps := scorePractice(practice, "nightly backup with quarterly restore tests", nil)
	assert.Equal(t, ModeLegacy, ps.Mode)
	assert.Equal(t, []string{"backup", "restore"}, ps.MatchedSignals)
	assert.InDelta(t, 0.5, ps.Coverage, 1e-9)
	assert.Equal(t, 3, ps.Score)

	t.Run("empty legacy signal list scores zero", func(t *testing.T) {
		ps := scorePractice(&PracticeDefinition{Code: "X", Weight: 1}, "backup", nil)
		assert.Equal(t, 0, ps.Score)
		assert.Zero(t, ps.Coverage)
	})
}

// Adding a previously-unmatched signal phrase to the text never decreases
// coverage or score.
func TestScorePracticeMonotonic(t *testing.T) {
	practice := &PracticeDefinition{
		Code:   "RE05",
		Weight: 1.0,
		Scoring: &ScoringBlock{
			Mode:    "proportional",
			Signals: []string{"redundancy", "failover", "replica"},
		},
	}

	base := "the design includes redundancy"
	before := scorePractice(practice, base, nil)
	after := scorePractice(practice, base+" and failover", nil)

	assert.GreaterOrEqual(t, after.Coverage, before.Coverage)
	assert.GreaterOrEqual(t, after.Score, before.Score)
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, 1, normalizeSeverity(RecommendationDefinition{Severity: 1}))
	assert.Equal(t, 2, normalizeSeverity(RecommendationDefinition{ExecutionPriority: 2}))
	assert.Equal(t, 3, normalizeSeverity(RecommendationDefinition{Priority: 3}))
	assert.Equal(t, 5, normalizeSeverity(RecommendationDefinition{}))
}

func TestCollectRecommendations(t *testing.T) {
	practice := &PracticeDefinition{
		Code: "RE09",
		Recommendations: []RecommendationDefinition{
			{Title: "critical", Severity: 1},
			{Title: "informational", Severity: 5},
		},
	}

	t.Run("low score surfaces only high severity", func(t *testing.T) {
		recs := collectRecommendations(practice, PracticeScore{Code: "RE09", Score: 1})
		if assert.Len(t, recs, 1) {
			assert.Equal(t, "critical", recs[0].Title)
			assert.Equal(t, "RE09", recs[0].Practice)
		}
	})

	t.Run("healthy score surfaces nothing", func(t *testing.T) {
		assert.Empty(t, collectRecommendations(practice, PracticeScore{Code: "RE09", Score: 3}))
	})
}
