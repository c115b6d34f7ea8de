package scoring

import (
	"math"
	"sort"
	"strings"
)

// maxReportedSignals caps the matched-signal union reported per practice
// when aggregating multiple corpus sections.
const maxReportedSignals = 20

// Engine computes category scores from evidence text. The engine is
// stateless and safe for concurrent use: identical inputs always yield an
// identical CategoryResult.
type Engine struct{}

// NewEngine returns a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute scores a single text against a category definition. Practices are
// evaluated in declaration order with optional per-practice weight
// overrides; the overall maturity percent is the weighted practice score
// normalized to 0-100. Zero total weight yields 0.
func (e *Engine) Compute(text string, def *CategoryDefinition) CategoryResult {
	lower := strings.ToLower(text)

	result := CategoryResult{
		Category:        def.Category,
		Version:         def.Version,
		Framework:       def.Framework,
		Scale:           def.Scale,
		PracticeScores:  make([]PracticeScore, 0, len(def.Practices)),
		Recommendations: []Recommendation{},
	}

	var totalWeight, weightedScore float64
	for i := range def.Practices {
		practice := &def.Practices[i]
		var override *float64
		if w, ok := def.Weights[practice.Code]; ok && practice.Code != "" {
			override = &w
		}

		ps := scorePractice(practice, lower, override)
		ps.Coverage = round3(ps.Coverage)
		result.PracticeScores = append(result.PracticeScores, ps)

		totalWeight += ps.Weight
		weightedScore += float64(ps.Score) * ps.Weight
		for _, rec := range collectRecommendations(practice, ps) {
			rec.SourceCategory = def.Category
			result.Recommendations = append(result.Recommendations, rec)
		}
	}

	if totalWeight > 0 {
		result.OverallMaturityPercent = round2(weightedScore / (5 * totalWeight) * 100)
	}

	result.GapResults = EvaluateGaps(lower, def.Gaps)
	for _, g := range result.GapResults {
		if g.Matched {
			result.MatchedGapCount++
		} else {
			result.UnmatchedGapCount++
		}
	}
	return result
}

// ComputeSections scores each named corpus section independently and
// aggregates with equal weight per section, so no single artifact type
// dominates the maturity signal.
//
// The reported maturity percent is the unweighted arithmetic mean across
// sections. Practice scores are averaged (rounded back to the integer
// scale), coverage is averaged, and matched signals are unioned with a cap
// for reporting. Gap results and recommendations are pooled across
// sections; recommendation deduplication happens downstream.
func (e *Engine) ComputeSections(sections []string, def *CategoryDefinition) CategoryResult {
	if len(sections) == 0 {
		return e.Compute("", def)
	}
	if len(sections) == 1 {
		return e.Compute(sections[0], def)
	}

	type practiceAcc struct {
		title     string
		weight    float64
		mode      ScoringMode
		total     int
		scoreSum  int
		coverage  float64
		sections  int
		signalSet map[string]struct{}
	}

	accByCode := make(map[string]*practiceAcc)
	var order []string
	var percentSum float64

	merged := CategoryResult{
		Category:        def.Category,
		Version:         def.Version,
		Framework:       def.Framework,
		Scale:           def.Scale,
		GapResults:      []GapResult{},
		Recommendations: []Recommendation{},
	}

	for _, section := range sections {
		sectionResult := e.Compute(section, def)
		percentSum += sectionResult.OverallMaturityPercent

		for _, ps := range sectionResult.PracticeScores {
			acc, ok := accByCode[ps.Code]
			if !ok {
				acc = &practiceAcc{
					title:     ps.Title,
					weight:    ps.Weight,
					mode:      ps.Mode,
					total:     ps.TotalSignals,
					signalSet: make(map[string]struct{}),
				}
				accByCode[ps.Code] = acc
				order = append(order, ps.Code)
			}
			acc.scoreSum += ps.Score
			acc.coverage += ps.Coverage
			acc.sections++
			for _, sig := range ps.MatchedSignals {
				acc.signalSet[sig] = struct{}{}
			}
		}

		merged.GapResults = append(merged.GapResults, sectionResult.GapResults...)
		merged.Recommendations = append(merged.Recommendations, sectionResult.Recommendations...)
	}

	merged.PracticeScores = make([]PracticeScore, 0, len(order))
	for _, code := range order {
		acc := accByCode[code]
		signals := make([]string, 0, len(acc.signalSet))
		for sig := range acc.signalSet {
			signals = append(signals, sig)
		}
		sort.Strings(signals)
		if len(signals) > maxReportedSignals {
			signals = signals[:maxReportedSignals]
		}

		merged.PracticeScores = append(merged.PracticeScores, PracticeScore{
			Code:           code,
			Title:          acc.title,
			Weight:         acc.weight,
			Score:          int(math.Round(float64(acc.scoreSum) / float64(acc.sections))),
			MatchedSignals: signals,
			TotalSignals:   acc.total,
			Coverage:       round3(acc.coverage / float64(acc.sections)),
			Mode:           acc.mode,
		})
	}

	merged.OverallMaturityPercent = round2(percentSum / float64(len(sections)))
	for _, g := range merged.GapResults {
		if g.Matched {
			merged.MatchedGapCount++
		} else {
			merged.UnmatchedGapCount++
		}
	}
	return merged
}

// BreakdownGroup is one named grouping of practice codes with its averaged
// maturity percent.
type BreakdownGroup struct {
	Name      string              `json:"name"`
	Percent   float64             `json:"percent"`
	Practices []BreakdownPractice `json:"practices"`
}

// BreakdownPractice reports one practice's contribution inside a group.
type BreakdownPractice struct {
	Code    string  `json:"code"`
	Title   string  `json:"title"`
	Percent float64 `json:"percent"`
}

// Breakdown rolls practice scores up into named groups of practice codes,
// reporting each group's mean percent. Codes absent from the result count
// as zero.
func Breakdown(result CategoryResult, groups map[string][]string) []BreakdownGroup {
	scoreByCode := make(map[string]int, len(result.PracticeScores))
	titleByCode := make(map[string]string, len(result.PracticeScores))
	for _, ps := range result.PracticeScores {
		scoreByCode[ps.Code] = ps.Score
		titleByCode[ps.Code] = ps.Title
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]BreakdownGroup, 0, len(names))
	for _, name := range names {
		codes := groups[name]
		group := BreakdownGroup{Name: name, Practices: make([]BreakdownPractice, 0, len(codes))}
		var sum float64
		for _, code := range codes {
			pct := float64(scoreByCode[code]) / 5.0 * 100.0
			sum += pct
			group.Practices = append(group.Practices, BreakdownPractice{
				Code:    code,
				Title:   titleByCode[code],
				Percent: round2(pct),
			})
		}
		if len(codes) > 0 {
			group.Percent = round2(sum / float64(len(codes)))
		}
		out = append(out, group)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
