package scoring

import (
	"math"
	"strings"
)

// fullMatchEpsilon absorbs floating point drift when summing signal weights.
// It applies only to the full-match check; tier boundaries use the much
// tighter tierEpsilon so a coverage genuinely below a threshold never rounds
// up into the higher tier.
const fullMatchEpsilon = 1e-3

// tierEpsilon absorbs float noise at tier boundaries.
const tierEpsilon = 1e-9

// signalMatch is the weighted matching outcome for a scoring block.
type signalMatch struct {
	matched     []string
	matchedWt   float64
	totalWt     float64
	coverage    float64
	signalCount int
}

// matchScoringSignals checks each declared signal (or any of its aliases)
// against lower-cased text and accumulates matched weight.
func matchScoringSignals(text string, block *ScoringBlock) signalMatch {
	m := signalMatch{signalCount: len(block.Signals)}

	for _, sig := range block.Signals {
		m.totalWt += signalWeight(block, sig)
	}

	for _, sig := range block.Signals {
		terms := append([]string{sig}, block.SignalAliases[sig]...)
		for _, term := range terms {
			if PhrasePresent(text, term) {
				m.matched = append(m.matched, sig)
				m.matchedWt += signalWeight(block, sig)
				break
			}
		}
	}

	if m.totalWt > 0 {
		m.coverage = m.matchedWt / m.totalWt
	}
	return m
}

func signalWeight(block *ScoringBlock, signal string) float64 {
	if w, ok := block.SignalWeights[signal]; ok {
		return w
	}
	return 1.0
}

// scoreFromCoverage converts coverage into a 0-5 score for a mode.
func scoreFromCoverage(mode ScoringMode, coverage float64, anyMatched, fullMatch bool) int {
	if !anyMatched {
		return 0
	}
	switch mode {
	case ModeTiered:
		type tier struct {
			threshold float64
			score     int
		}
		for _, t := range []tier{{1.0, 5}, {0.75, 4}, {0.5, 3}, {0.25, 2}, {0.0, 1}} {
			if coverage >= t.threshold-tierEpsilon && (t.threshold < 1.0 || fullMatch) {
				return t.score
			}
		}
		return 1
	case ModeBinary:
		if fullMatch {
			return 5
		}
		if coverage >= 0.5 {
			return 4
		}
		return 2
	default: // proportional
		return int(math.Round(coverage * 5))
	}
}

// scorePractice evaluates one practice against lower-cased text. Malformed
// practices degrade to neutral values (weight 0, score 0) rather than
// failing, so one bad definition cannot abort a multi-category run.
func scorePractice(practice *PracticeDefinition, text string, overrideWeight *float64) PracticeScore {
	weight := practice.Weight
	if overrideWeight != nil {
		weight = *overrideWeight
	}

	ps := PracticeScore{
		Code:           practice.Code,
		Title:          practice.Title,
		Weight:         weight,
		MatchedSignals: []string{},
	}

	if practice.Scoring != nil {
		mode := ScoringMode(strings.ToLower(practice.Scoring.Mode))
		if mode == "" {
			mode = ModeProportional
		}
		m := matchScoringSignals(text, practice.Scoring)
		fullMatch := m.coverage >= 1.0-fullMatchEpsilon

		ps.Mode = mode
		ps.Coverage = m.coverage
		ps.Score = scoreFromCoverage(mode, m.coverage, len(m.matched) > 0, fullMatch)
		ps.MatchedSignals = append(ps.MatchedSignals, m.matched...)
		ps.TotalSignals = m.signalCount
		return ps
	}

	// Legacy path: flat signal list, unweighted proportional coverage.
	ps.Mode = ModeLegacy
	ps.TotalSignals = len(practice.Signals)
	if ps.TotalSignals == 0 {
		// An empty practice is never credited.
		return ps
	}
	for _, sig := range practice.Signals {
		if PhrasePresent(text, sig) {
			ps.MatchedSignals = append(ps.MatchedSignals, sig)
		}
	}
	ps.Coverage = float64(len(ps.MatchedSignals)) / float64(ps.TotalSignals)
	ps.Score = int(math.Round(ps.Coverage * 5))
	return ps
}

// collectRecommendations surfaces a practice's recommendations when the
// practice scored low (<= 2) and the recommendation is high severity
// (normalized severity <= 2, where 1 is critical and 5 informational).
func collectRecommendations(practice *PracticeDefinition, ps PracticeScore) []Recommendation {
	if ps.Score > 2 {
		return nil
	}
	var recs []Recommendation
	for _, rec := range practice.Recommendations {
		severity := normalizeSeverity(rec)
		if severity > 2 {
			continue
		}
		recs = append(recs, Recommendation{
			Title:     rec.Title,
			Reasoning: rec.Reasoning,
			Severity:  severity,
			Practice:  ps.Code,
		})
	}
	return recs
}

// normalizeSeverity resolves severity from the first declared field among
// severity, execution_priority, and priority, defaulting to 5.
func normalizeSeverity(rec RecommendationDefinition) int {
	for _, v := range []int{rec.Severity, rec.ExecutionPriority, rec.Priority} {
		if v != 0 {
			return v
		}
	}
	return 5
}
