package corpus

import (
	"fmt"
	"sort"
	"strings"
)

// TruncationMarker terminates any section cut to fit its token budget.
const TruncationMarker = "\n\n... [Content truncated for token budget - full context preserved in document analysis]"

// maxEvidenceExcerpts bounds how many excerpts per category are rendered
// into the consolidated evidence section.
const maxEvidenceExcerpts = 8

// Section headers in the composed corpus.
const (
	headerNarrative = "=== ARCHITECTURE NARRATIVE ==="
	headerVisual    = "=== VISUAL TOPOLOGY INSIGHTS ==="
	headerIncidents = "=== OPERATIONAL REALITY (SUPPORT CASES) ==="
	headerInventory = "=== COMPONENT INVENTORY ==="
	headerEvidence  = "=== CONSOLIDATED CATEGORY EVIDENCE ==="
)

// UnifiedCorpus is the assembled, section-bounded text representation of
// all evidence for one assessment run. Construct with Assembler.Assemble;
// immutable afterwards.
type UnifiedCorpus struct {
	// Narrative holds architecture documentation and structured report
	// sections.
	Narrative string

	// Visual holds diagram-derived topology insights.
	Visual string

	// IncidentSignals holds historical support case analysis.
	IncidentSignals string

	// ComponentInventory lists identified services. Duplicates allowed.
	ComponentInventory []Component

	// CategoryContext maps category name to deduplicated evidence excerpts.
	CategoryContext map[string][]string
}

// ConsolidatedEvidence renders the per-category evidence excerpts as the
// fourth corpus section. Categories render in sorted order so the output
// is reproducible.
func (c *UnifiedCorpus) ConsolidatedEvidence() string {
	if len(c.CategoryContext) == 0 {
		return ""
	}
	categories := make([]string, 0, len(c.CategoryContext))
	for category := range c.CategoryContext {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	for _, category := range categories {
		excerpts := c.CategoryContext[category]
		if len(excerpts) == 0 {
			continue
		}
		if len(excerpts) > maxEvidenceExcerpts {
			excerpts = excerpts[:maxEvidenceExcerpts]
		}
		sb.WriteString(fmt.Sprintf("**%s**: %s\n", titleCase(category), strings.Join(excerpts, "; ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FullCorpus regenerates the composed corpus string from the named
// sections and the component inventory. It is never stored independently.
func (c *UnifiedCorpus) FullCorpus() string {
	var parts []string

	if c.Narrative != "" {
		parts = append(parts, headerNarrative+"\n"+c.Narrative)
	}
	if c.Visual != "" {
		parts = append(parts, "\n"+headerVisual+"\n"+c.Visual)
	}
	if c.IncidentSignals != "" {
		parts = append(parts, "\n"+headerIncidents+"\n"+c.IncidentSignals)
	}
	if len(c.ComponentInventory) > 0 {
		parts = append(parts, "\n"+headerInventory)
		parts = append(parts, c.renderInventory()...)
	}
	if evidence := c.ConsolidatedEvidence(); evidence != "" {
		parts = append(parts, "\n"+headerEvidence+"\n"+evidence)
	}
	return strings.Join(parts, "\n")
}

// Sections returns the non-empty named sections for equal-weight scoring,
// in fixed order: narrative, visual, incident signals, consolidated
// evidence.
func (c *UnifiedCorpus) Sections() []string {
	var sections []string
	for _, s := range []string{c.Narrative, c.Visual, c.IncidentSignals, c.ConsolidatedEvidence()} {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// renderInventory groups unique services under sorted category headings.
func (c *UnifiedCorpus) renderInventory() []string {
	byCategory := make(map[string]map[string]struct{})
	for _, comp := range c.ComponentInventory {
		category := comp.Category
		if category == "" {
			category = "other"
		}
		if byCategory[category] == nil {
			byCategory[category] = make(map[string]struct{})
		}
		byCategory[category][comp.Service] = struct{}{}
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		services := make([]string, 0, len(byCategory[category]))
		for service := range byCategory[category] {
			services = append(services, service)
		}
		sort.Strings(services)
		lines = append(lines, fmt.Sprintf("%s: %s", titleCase(category), strings.Join(services, ", ")))
	}
	return lines
}

// EstimateTokens estimates token count with the words*1.3 heuristic.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(float64(len(strings.Fields(text))) * 1.3)
}

// truncateSection cuts text to stay within the token budget. The cut is a
// hard character cut (budget*4 chars) rolled back to the last sentence
// boundary found within the final 20% of the cut, then marked. Truncation
// always returns usable text.
func truncateSection(text string, maxTokens int) string {
	if text == "" || EstimateTokens(text) <= maxTokens {
		return text
	}

	maxChars := maxTokens * 4
	if len(text) <= maxChars {
		return text
	}

	truncated := text[:maxChars]
	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > maxChars*8/10 {
		truncated = truncated[:lastPeriod+1]
	}
	return truncated + TruncationMarker
}

// titleCase upper-cases the first letter of each word, for rendering
// category names as headings.
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
