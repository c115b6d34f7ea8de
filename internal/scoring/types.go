package scoring

// PracticeScore is the derived score for one practice against one text.
// Produced fresh per scoring call, never cached across inputs.
type PracticeScore struct {
	Code           string      `json:"code"`
	Title          string      `json:"title"`
	Weight         float64     `json:"weight"`
	Score          int         `json:"score"`
	MatchedSignals []string    `json:"matched_signals"`
	TotalSignals   int         `json:"total_signals"`
	Coverage       float64     `json:"coverage"`
	Mode           ScoringMode `json:"mode"`
}

// GapResult records whether a declared gap was detected in the text. Gaps
// feed downstream synthesis as negative evidence; they are not scored.
type GapResult struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Detail          string   `json:"detail,omitempty"`
	Practice        string   `json:"practice,omitempty"`
	Matched         bool     `json:"matched"`
	MatchedPatterns []string `json:"matched_patterns"`

	RecommendationHintKeywords []string `json:"recommendation_hint_keywords,omitempty"`
}

// Recommendation is a surfaced improvement suggestion. Downstream consumers
// (conflict detection, deduplication) read these without mutating content.
type Recommendation struct {
	Title          string `json:"title"`
	Reasoning      string `json:"reasoning"`
	Severity       int    `json:"severity"`
	Practice       string `json:"practice,omitempty"`
	SourceCategory string `json:"source_category,omitempty"`

	// CrossCategoryConsiderations carries conflict-aware guidance attached
	// during synthesis.
	CrossCategoryConsiderations []string `json:"cross_category_considerations,omitempty"`
}

// CategoryResult is the complete scoring outcome for one category.
type CategoryResult struct {
	Category               string            `json:"category"`
	Version                string            `json:"version"`
	Framework              string            `json:"framework,omitempty"`
	Scale                  map[string]string `json:"scale,omitempty"`
	OverallMaturityPercent float64           `json:"overall_maturity_percent"`
	PracticeScores         []PracticeScore   `json:"practice_scores"`
	GapResults             []GapResult       `json:"gap_results"`
	Recommendations        []Recommendation  `json:"recommendations"`
	MatchedGapCount        int               `json:"matched_gap_count"`
	UnmatchedGapCount      int               `json:"unmatched_gap_count"`
}
