// Package corpus assembles heterogeneous evidence artifacts into a single
// weighted review corpus.
//
// # Overview
//
// An assessment run receives documents in three categories: "architecture"
// (narrative text plus optional structured report), "diagram" (vision
// analysis of topology diagrams), and "case" (historical incident records).
// The Assembler merges per-document analysis results into named, token
// bounded sections and a per-category evidence context. The resulting
// UnifiedCorpus is immutable after construction and owned by exactly one
// run; its composed full-corpus string is regenerated deterministically
// from the sections rather than stored.
//
// Section truncation is structural, never an error: text is cut at the
// character budget, rolled back to the nearest sentence boundary within the
// final fifth of the cut, and terminated with an explicit marker.
package corpus
