package corpus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/assessd/internal/logging"
)

func testAssembler(budgets Budgets) *Assembler {
	return NewAssembler(logging.NewNop(), budgets)
}

func TestAssembleRoutesByCategory(t *testing.T) {
	docs := []Document{
		{ID: "d1", Category: CategoryArchitecture, Filename: "arch.md", RawText: "the system uses multi-region failover"},
		{ID: "d2", Category: CategoryDiagram, Filename: "topology.png"},
		{ID: "d3", Category: CategoryCase, Filename: "cases.csv"},
	}
	results := map[string]AnalysisResult{
		"d1": {LLMAnalysis: "narrative analysis insight"},
		"d2": {LLMAnalysis: "diagram shows a load balancer", TopologyInsights: []string{"two zones observed"}},
		"d3": {LLMAnalysis: "recurring timeout incidents"},
	}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, results)

	assert.Contains(t, c.Narrative, "arch.md")
	assert.Contains(t, c.Narrative, "multi-region failover")
	assert.Contains(t, c.Narrative, "narrative analysis insight")
	assert.Contains(t, c.Visual, "load balancer")
	assert.Contains(t, c.Visual, "two zones observed")
	assert.Contains(t, c.IncidentSignals, "recurring timeout incidents")
}

func TestAssembleStructuredReportSections(t *testing.T) {
	rep := &StructuredReport{
		ExecutiveSummary:     "summary of the platform",
		ArchitectureOverview: "three tier web application",
		CrossCuttingConcerns: map[string]string{"security": "no waf in front of ingress"},
		DeploymentSummary:    "weekly blue-green deployments",
	}
	docs := []Document{{ID: "d1", Category: CategoryArchitecture, Filename: "arch.md", StructuredReport: rep}}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, nil)

	assert.Contains(t, c.Narrative, "### EXECUTIVE SUMMARY")
	assert.Contains(t, c.Narrative, "### ARCHITECTURE OVERVIEW")
	assert.Contains(t, c.Narrative, "**Security**: no waf in front of ingress")
	assert.Contains(t, c.Narrative, "### DEPLOYMENT SUMMARY")
}

func TestAssembleAggregatedSummary(t *testing.T) {
	docs := []Document{
		{ID: "d1", Category: CategoryArchitecture, Filename: "a.md",
			StructuredReport: &StructuredReport{ExecutiveSummary: "first summary"}},
		{ID: "d2", Category: CategoryDiagram, Filename: "b.png",
			StructuredReport: &StructuredReport{ExecutiveSummary: "second summary"}},
	}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, nil)

	// Two executive summaries trigger the assessment-level preamble.
	assert.True(t, strings.HasPrefix(c.Narrative, "=== AGGREGATED ASSESSMENT EXECUTIVE SUMMARY ==="))
	assert.Contains(t, c.Narrative, "2 artifacts")
	assert.Contains(t, c.Narrative, "1 architecture document(s), 1 diagram(s), 0 support case dataset(s)")
}

func TestAssembleCategoryContextDeduplication(t *testing.T) {
	long := strings.Repeat("zone redundant storage accounts across paired regions ", 4)
	docs := []Document{
		{ID: "d1", Category: CategoryArchitecture, Filename: "a.md"},
		{ID: "d2", Category: CategoryCase, Filename: "b.csv"},
	}
	results := map[string]AnalysisResult{
		"d1": {CategorySignals: map[string][]string{"reliability": {long, "short excerpt"}}},
		// Same leading 140 chars, different tail and case: a near duplicate.
		"d2": {CategorySignals: map[string][]string{"reliability": {strings.ToUpper(long) + " extra tail"}}},
	}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, results)

	require.Contains(t, c.CategoryContext, "reliability")
	assert.Len(t, c.CategoryContext["reliability"], 2)
	assert.Equal(t, long, c.CategoryContext["reliability"][0])
}

func TestAssembleTruncatesSections(t *testing.T) {
	docs := []Document{{ID: "d1", Category: CategoryArchitecture, Filename: "a.md",
		RawText: strings.Repeat("distributed ", 2000)}}

	c := testAssembler(Budgets{Narrative: 100}).Assemble(context.Background(), docs, nil)

	assert.True(t, strings.HasSuffix(c.Narrative, TruncationMarker))
	assert.LessOrEqual(t, EstimateTokens(c.Narrative), 100)
}

func TestAssembleSkipsInvalidDocuments(t *testing.T) {
	docs := []Document{
		{ID: "", Category: CategoryArchitecture, Filename: "missing-id.md", RawText: "ignored"},
		{ID: "d2", Category: "spreadsheet", Filename: "wrong.xlsx", RawText: "ignored"},
		{ID: "d3", Category: CategoryArchitecture, Filename: "ok.md", RawText: "kept text"},
	}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, nil)

	assert.NotContains(t, c.Narrative, "ignored")
	assert.Contains(t, c.Narrative, "kept text")
}

func TestAssembleRiskAndThematics(t *testing.T) {
	docs := []Document{{ID: "d1", Category: CategoryCase, Filename: "cases.csv"}}
	results := map[string]AnalysisResult{
		"d1": {
			ThematicPatterns: map[string][]string{"connectivity": {"case-1", "case-2"}},
			RiskSignals: []RiskSignal{
				{Severity: "high", Qualifier: "repeated gateway failures"},
				{Severity: "low", Qualifier: "cosmetic ui issue"},
			},
		},
	}

	c := testAssembler(Budgets{}).Assemble(context.Background(), docs, results)

	assert.Contains(t, c.IncidentSignals, "Connectivity: 2 cases")
	assert.Contains(t, c.IncidentSignals, "repeated gateway failures")
	assert.NotContains(t, c.IncidentSignals, "cosmetic ui issue")
}

func TestDocumentValidate(t *testing.T) {
	assert.NoError(t, Document{ID: "x", Category: CategoryCase}.Validate())
	assert.ErrorIs(t, Document{Category: CategoryCase}.Validate(), ErrInvalidDocument)
	assert.ErrorIs(t, Document{ID: "x", Category: "video"}.Validate(), ErrInvalidDocument)
}
