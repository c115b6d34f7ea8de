// Package scoring implements the deterministic maturity scoring engine.
//
// # Overview
//
// Scoring is pattern-based, not statistical. A category definition declares
// a weighted set of practices; each practice declares signal phrases whose
// presence in evidence text is credited toward a bounded 0-5 score. Gap
// patterns detect known deficiencies independently of practice scoring.
//
// The engine is pure: identical (text, definition) inputs always produce an
// identical CategoryResult, which keeps assessment output reproducible
// across runs and environments.
//
// # Key Components
//
//   - PhrasePresent: boundary-safe phrase matching primitive
//   - Engine: per-category scoring with weighted aggregation
//   - EvaluateGaps: regex/phrase detection of negative conditions
//   - DefinitionSource: loading of versioned category definitions
package scoring
