package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/assessd/internal/logging"
)

// evidenceDedupPrefixLen is the length of the case-insensitive key prefix
// used for cheap near-duplicate suppression of evidence excerpts. Cheaper
// than embeddings and good enough for boilerplate repeated across
// artifacts.
const evidenceDedupPrefixLen = 140

// Budgets sets the per-section token budgets.
type Budgets struct {
	Narrative int
	Visual    int
	Incident  int
}

// DefaultBudgets returns the standard section budgets.
func DefaultBudgets() Budgets {
	return Budgets{Narrative: 5000, Visual: 3000, Incident: 4000}
}

// Assembler merges per-document analysis results into a UnifiedCorpus.
type Assembler struct {
	logger  *logging.Logger
	budgets Budgets
}

// NewAssembler creates an assembler. Zero budget fields fall back to the
// defaults.
func NewAssembler(logger *logging.Logger, budgets Budgets) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	defaults := DefaultBudgets()
	if budgets.Narrative <= 0 {
		budgets.Narrative = defaults.Narrative
	}
	if budgets.Visual <= 0 {
		budgets.Visual = defaults.Visual
	}
	if budgets.Incident <= 0 {
		budgets.Incident = defaults.Incident
	}
	return &Assembler{logger: logger.Named("assembler"), budgets: budgets}
}

// Assemble builds the unified corpus from documents in input order. The
// operation is deterministic and total: malformed or unanalyzed documents
// contribute nothing instead of failing the run.
func (a *Assembler) Assemble(ctx context.Context, docs []Document, results map[string]AnalysisResult) *UnifiedCorpus {
	var (
		narrativeParts []string
		visualParts    []string
		caseParts      []string

		executiveSummaries  []string
		deploymentSummaries int
		caseConcerns        int
		crossCutting        = map[string]int{}
	)

	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			a.logger.Warn(ctx, "skipping document", zap.Error(err))
			continue
		}
		analysis := results[doc.ID]
		rep := report(doc, analysis)

		switch doc.Category {
		case CategoryArchitecture:
			parts := []string{fmt.Sprintf("## %s\n%s", doc.Filename, doc.RawText)}
			if rep != nil {
				if rep.ExecutiveSummary != "" {
					executiveSummaries = append(executiveSummaries, rep.ExecutiveSummary)
					parts = append(parts, "### EXECUTIVE SUMMARY\n"+rep.ExecutiveSummary)
				}
				if rep.ArchitectureOverview != "" {
					parts = append(parts, "### ARCHITECTURE OVERVIEW\n"+rep.ArchitectureOverview)
				}
				parts = append(parts, renderCrossCutting(rep, "### CROSS-CUTTING CONCERNS", crossCutting)...)
				if rep.DeploymentSummary != "" {
					deploymentSummaries++
					parts = append(parts, "### DEPLOYMENT SUMMARY\n"+rep.DeploymentSummary)
				}
			}
			if analysis.LLMAnalysis != "" {
				parts = append(parts, "### Analysis Insights\n"+analysis.LLMAnalysis)
			}
			narrativeParts = append(narrativeParts, parts...)

		case CategoryDiagram:
			if rep != nil {
				if rep.ExecutiveSummary != "" {
					executiveSummaries = append(executiveSummaries, rep.ExecutiveSummary)
					visualParts = append(visualParts, fmt.Sprintf("## %s - EXECUTIVE SUMMARY\n%s", doc.Filename, rep.ExecutiveSummary))
				}
				if rep.ArchitectureOverview != "" {
					visualParts = append(visualParts, "### ARCHITECTURE OVERVIEW (Visual)\n"+rep.ArchitectureOverview)
				}
				visualParts = append(visualParts, renderCrossCutting(rep, "### CROSS-CUTTING CONCERNS (Diagram)", crossCutting)...)
				if rep.DeploymentSummary != "" {
					deploymentSummaries++
					visualParts = append(visualParts, "### DEPLOYMENT (Visual)\n"+rep.DeploymentSummary)
				}
			}
			if analysis.LLMAnalysis != "" {
				visualParts = append(visualParts, fmt.Sprintf("## %s\n%s", doc.Filename, analysis.LLMAnalysis))
			}
			visualParts = append(visualParts, analysis.TopologyInsights...)

		case CategoryCase:
			if rep != nil {
				if rep.ExecutiveSummary != "" {
					executiveSummaries = append(executiveSummaries, rep.ExecutiveSummary)
					caseParts = append(caseParts, "## SUPPORT CASE EXECUTIVE SUMMARY\n"+rep.ExecutiveSummary)
				}
				if rep.SupportCaseConcerns != "" {
					caseConcerns++
					caseParts = append(caseParts, "### SUPPORT CASE CONCERNS\n"+rep.SupportCaseConcerns)
				}
				caseParts = append(caseParts, renderCrossCutting(rep, "### HISTORICAL INCIDENT CROSS-CUTTING PATTERNS", crossCutting)...)
				if rep.DeploymentSummary != "" {
					deploymentSummaries++
					caseParts = append(caseParts, "### OPERATIONAL DEPLOYMENT INSIGHTS\n"+rep.DeploymentSummary)
				}
			}
			if analysis.LLMAnalysis != "" {
				caseParts = append(caseParts, analysis.LLMAnalysis)
			}
			caseParts = append(caseParts, renderThematicPatterns(analysis)...)
			caseParts = append(caseParts, renderRiskSignals(analysis)...)
		}
	}

	narrative := strings.Join(narrativeParts, "\n\n")
	if summary := aggregatedSummary(docs, executiveSummaries, crossCutting, deploymentSummaries, caseConcerns); summary != "" {
		narrative = summary + "\n" + narrative
	}

	unified := &UnifiedCorpus{
		Narrative:          truncateSection(narrative, a.budgets.Narrative),
		Visual:             truncateSection(strings.Join(visualParts, "\n\n"), a.budgets.Visual),
		IncidentSignals:    truncateSection(strings.Join(caseParts, "\n\n"), a.budgets.Incident),
		ComponentInventory: collectInventory(docs, results),
		CategoryContext:    collectCategoryContext(docs, results),
	}

	a.logger.Info(ctx, "corpus assembled",
		zap.Int("documents", len(docs)),
		zap.Int("narrative_tokens", EstimateTokens(unified.Narrative)),
		zap.Int("visual_tokens", EstimateTokens(unified.Visual)),
		zap.Int("incident_tokens", EstimateTokens(unified.IncidentSignals)),
		zap.Int("components", len(unified.ComponentInventory)),
	)
	return unified
}

// renderCrossCutting renders a report's cross-cutting concerns under a
// heading in sorted dimension order, counting findings per dimension.
func renderCrossCutting(rep *StructuredReport, heading string, counts map[string]int) []string {
	if len(rep.CrossCuttingConcerns) == 0 {
		return nil
	}
	parts := []string{heading}
	for _, dimension := range sortedKeys(rep.CrossCuttingConcerns) {
		counts[dimension]++
		parts = append(parts, fmt.Sprintf("**%s**: %s", titleCase(dimension), rep.CrossCuttingConcerns[dimension]))
	}
	return parts
}

func renderThematicPatterns(analysis AnalysisResult) []string {
	if len(analysis.ThematicPatterns) == 0 {
		return nil
	}
	parts := []string{"Thematic Pattern Distribution:"}
	for _, theme := range sortedKeys(analysis.ThematicPatterns) {
		parts = append(parts, fmt.Sprintf("  - %s: %d cases", titleCase(theme), len(analysis.ThematicPatterns[theme])))
	}
	return parts
}

func renderRiskSignals(analysis AnalysisResult) []string {
	var risky []string
	for _, risk := range analysis.RiskSignals {
		if risk.Severity == "high" || risk.Severity == "medium" {
			risky = append(risky, "  ! "+risk.Qualifier)
		}
	}
	if len(risky) == 0 {
		return nil
	}
	return append([]string{"Risk Signals:"}, risky...)
}

// aggregatedSummary prefixes the narrative with an assessment-level summary
// when more than one executive summary exists across artifacts.
func aggregatedSummary(docs []Document, summaries []string, crossCutting map[string]int, deployments, caseConcerns int) string {
	if len(summaries) <= 1 {
		return ""
	}

	counts := map[Category]int{}
	for _, doc := range docs {
		counts[doc.Category]++
	}

	var sb strings.Builder
	sb.WriteString("=== AGGREGATED ASSESSMENT EXECUTIVE SUMMARY ===\n")
	sb.WriteString(fmt.Sprintf(
		"This assessment analyzed %d artifacts (%d architecture document(s), %d diagram(s), %d support case dataset(s)).\n\n",
		len(docs), counts[CategoryArchitecture], counts[CategoryDiagram], counts[CategoryCase]))

	sb.WriteString("**Cross-Cutting Concerns Summary**:\n")
	for _, dimension := range sortedKeys(crossCutting) {
		sb.WriteString(fmt.Sprintf("- %s: %d finding(s) across artifacts; consolidated review required\n", titleCase(dimension), crossCutting[dimension]))
	}

	if deployments > 0 {
		sb.WriteString(fmt.Sprintf("\n**Deployment Considerations**: %d artifact(s) provide deployment context; review for consistency.\n", deployments))
	}
	if caseConcerns > 0 {
		sb.WriteString(fmt.Sprintf("**Operational History**: %d support case analysis reveals recurring operational challenges.\n", caseConcerns))
	}
	return sb.String()
}

// collectInventory pools identified components in document order.
func collectInventory(docs []Document, results map[string]AnalysisResult) []Component {
	var inventory []Component
	for _, doc := range docs {
		inventory = append(inventory, results[doc.ID].ComponentsIdentified...)
	}
	return inventory
}

// collectCategoryContext merges per-category evidence excerpts from
// analysis signals and structured reports, deduplicating each category's
// list by a case-insensitive key prefix.
func collectCategoryContext(docs []Document, results map[string]AnalysisResult) map[string][]string {
	merged := make(map[string][]string)
	for _, doc := range docs {
		analysis := results[doc.ID]
		for _, category := range sortedKeys(analysis.CategorySignals) {
			merged[category] = append(merged[category], analysis.CategorySignals[category]...)
		}
		if rep := report(doc, analysis); rep != nil {
			for _, category := range sortedKeys(rep.CategoryEvidence) {
				merged[category] = append(merged[category], rep.CategoryEvidence[category]...)
			}
		}
	}

	for category, excerpts := range merged {
		merged[category] = dedupeByPrefix(excerpts)
	}
	return merged
}

// dedupeByPrefix drops excerpts whose lower-cased leading prefix was
// already seen, preserving first occurrences in order.
func dedupeByPrefix(excerpts []string) []string {
	seen := make(map[string]struct{}, len(excerpts))
	deduped := make([]string, 0, len(excerpts))
	for _, excerpt := range excerpts {
		key := strings.ToLower(excerpt)
		if len(key) > evidenceDedupPrefixLen {
			key = key[:evidenceDedupPrefixLen]
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, excerpt)
	}
	return deduped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic iteration for reproducible corpus text.
	sort.Strings(keys)
	return keys
}
