package corpus

import (
	"errors"
	"fmt"
)

// Category classifies an uploaded evidence artifact.
type Category string

const (
	// CategoryArchitecture is narrative architecture documentation.
	CategoryArchitecture Category = "architecture"

	// CategoryDiagram is a topology diagram analyzed by a vision model.
	CategoryDiagram Category = "diagram"

	// CategoryCase is a historical support case or incident dataset.
	CategoryCase Category = "case"
)

// ErrInvalidDocument indicates a document failed ingestion validation.
var ErrInvalidDocument = errors.New("invalid document")

// StructuredReport carries the sections an upstream analyzer extracted from
// one artifact. All fields are optional.
type StructuredReport struct {
	ExecutiveSummary     string            `json:"executive_summary,omitempty"`
	ArchitectureOverview string            `json:"architecture_overview,omitempty"`
	CrossCuttingConcerns map[string]string `json:"cross_cutting_concerns,omitempty"`
	DeploymentSummary    string            `json:"deployment_summary,omitempty"`
	SupportCaseConcerns  string            `json:"support_case_concerns,omitempty"`

	// CategoryEvidence maps category name to evidence excerpts supporting
	// that category's evaluation.
	CategoryEvidence map[string][]string `json:"category_evidence,omitempty"`
}

// Document is one uploaded evidence artifact. Payloads are validated at the
// ingestion boundary instead of being inspected ad hoc downstream.
type Document struct {
	ID               string            `json:"id"`
	Category         Category          `json:"category"`
	Filename         string            `json:"filename"`
	RawText          string            `json:"raw_text,omitempty"`
	StructuredReport *StructuredReport `json:"structured_report,omitempty"`
}

// Validate checks the document is well formed for ingestion.
func (d Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	switch d.Category {
	case CategoryArchitecture, CategoryDiagram, CategoryCase:
	default:
		return fmt.Errorf("%w: unknown category %q for document %s", ErrInvalidDocument, d.Category, d.ID)
	}
	return nil
}

// Component is one identified service with its architectural grouping.
// Duplicates are allowed in an inventory.
type Component struct {
	Service  string `json:"service"`
	Category string `json:"category"`
}

// RiskSignal is an extracted operational risk indicator from case analysis.
type RiskSignal struct {
	Severity  string `json:"severity"`
	Qualifier string `json:"risk_qualifier"`
}

// AnalysisResult holds the upstream analysis output for one document.
type AnalysisResult struct {
	LLMAnalysis          string              `json:"llm_analysis,omitempty"`
	CategorySignals      map[string][]string `json:"category_signals,omitempty"`
	ComponentsIdentified []Component         `json:"components_identified,omitempty"`
	StructuredReport     *StructuredReport   `json:"structured_report,omitempty"`
	TopologyInsights     []string            `json:"topology_insights,omitempty"`
	ThematicPatterns     map[string][]string `json:"thematic_patterns,omitempty"`
	RiskSignals          []RiskSignal        `json:"risk_signals,omitempty"`
}

// report resolves the structured report for a document, preferring the
// document's own copy over the one attached to its analysis.
func report(doc Document, analysis AnalysisResult) *StructuredReport {
	if doc.StructuredReport != nil {
		return doc.StructuredReport
	}
	return analysis.StructuredReport
}
