package alignment

import (
	"strings"

	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

// ConflictType distinguishes antagonistic trade-offs from cross-category
// enablers.
type ConflictType string

const (
	// ConflictTradeoff marks a pair of recommendations pulling a design
	// in opposite directions.
	ConflictTradeoff ConflictType = "tradeoff"
	// ConflictEnabler marks a recommendation in one category that
	// accelerates progress in others rather than opposing it.
	ConflictEnabler ConflictType = "enabler"
)

// Conflict is one detected cross-category interaction between
// recommendations from two different categories.
type Conflict struct {
	Type        ConflictType `json:"type"`
	CategoryA   string       `json:"category_a"`
	CategoryB   string       `json:"category_b"`
	TitleA      string       `json:"title_a"`
	TitleB      string       `json:"title_b,omitempty"`
	Description string       `json:"description"`
	Guidance    string       `json:"guidance"`
}

// keywordRule fires when a recommendation from categoryA mentions one of
// keywordsA and a recommendation from categoryB mentions one of keywordsB.
// Each rule reports at most one conflict per run.
type keywordRule struct {
	conflictType ConflictType
	categoryA    string
	keywordsA    []string
	categoryB    string
	keywordsB    []string
	description  string
	guidance     string
}

var conflictRules = []keywordRule{
	{
		conflictType: ConflictTradeoff,
		categoryA:    "cost_optimization",
		keywordsA:    []string{"reduce", "downsize", "lower tier", "scale down"},
		categoryB:    "reliability",
		keywordsB:    []string{"redundancy", "replica", "multi-region", "failover"},
		description:  "Cost reduction guidance conflicts with reliability guidance that adds redundant capacity.",
		guidance:     "Quantify the availability impact of the cost change before acting on either recommendation.",
	},
	{
		conflictType: ConflictTradeoff,
		categoryA:    "security",
		keywordsA:    []string{"encrypt", "authentication", "firewall", "inspection"},
		categoryB:    "performance_efficiency",
		keywordsB:    []string{"latency", "faster", "reduce overhead"},
		description:  "Security controls add processing overhead that works against latency-focused performance guidance.",
		guidance:     "Benchmark the control in the hot path and scope it to the traffic that needs it.",
	},
}

var enablerRule = keywordRule{
	conflictType: ConflictEnabler,
	categoryA:    "operational_excellence",
	keywordsA:    []string{"automation", "ci/cd", "pipeline", "iac"},
	description:  "Operational automation investment accelerates remediation work across all other categories.",
	guidance:     "Prioritize this recommendation; it lowers the cost of acting on the rest.",
}

// DetectConflicts scans the recommendations of all category results against
// the fixed rule table. Results are returned in rule order; a run with no
// matching pairs returns an empty slice.
func DetectConflicts(results []scoring.CategoryResult) []Conflict {
	byCategory := make(map[string][]scoring.Recommendation, len(results))
	for _, res := range results {
		byCategory[res.Category] = append(byCategory[res.Category], res.Recommendations...)
	}

	var conflicts []Conflict
	for _, rule := range conflictRules {
		recA, okA := firstMatch(byCategory[rule.categoryA], rule.keywordsA)
		recB, okB := firstMatch(byCategory[rule.categoryB], rule.keywordsB)
		if !okA || !okB {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        rule.conflictType,
			CategoryA:   rule.categoryA,
			CategoryB:   rule.categoryB,
			TitleA:      recA.Title,
			TitleB:      recB.Title,
			Description: rule.description,
			Guidance:    rule.guidance,
		})
	}

	if rec, ok := firstMatch(byCategory[enablerRule.categoryA], enablerRule.keywordsA); ok {
		conflicts = append(conflicts, Conflict{
			Type:        enablerRule.conflictType,
			CategoryA:   enablerRule.categoryA,
			TitleA:      rec.Title,
			Description: enablerRule.description,
			Guidance:    enablerRule.guidance,
		})
	}
	return conflicts
}

// firstMatch returns the first recommendation whose title or reasoning
// mentions any of the keywords, case-insensitively.
func firstMatch(recs []scoring.Recommendation, keywords []string) (scoring.Recommendation, bool) {
	for _, rec := range recs {
		text := strings.ToLower(rec.Title + " " + rec.Reasoning)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return rec, true
			}
		}
	}
	return scoring.Recommendation{}, false
}

// EnrichRecommendations returns a copy of recs with cross-category
// considerations attached to every recommendation whose source category is
// party to a detected conflict. Recommendation titles and reasoning are
// never altered.
func EnrichRecommendations(recs []scoring.Recommendation, conflicts []Conflict) []scoring.Recommendation {
	if len(conflicts) == 0 {
		return recs
	}
	notes := make(map[string][]string)
	for _, c := range conflicts {
		note := c.Description + " " + c.Guidance
		notes[c.CategoryA] = append(notes[c.CategoryA], note)
		if c.CategoryB != "" {
			notes[c.CategoryB] = append(notes[c.CategoryB], note)
		}
	}

	enriched := make([]scoring.Recommendation, len(recs))
	for i, rec := range recs {
		if extra, ok := notes[rec.SourceCategory]; ok {
			rec.CrossCategoryConsiderations = append(append([]string(nil), rec.CrossCategoryConsiderations...), extra...)
		}
		enriched[i] = rec
	}
	return enriched
}
