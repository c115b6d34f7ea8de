// Package logging provides structured, context-aware logging for assessd.
//
// The Logger wraps Zap and enriches every record with correlation fields
// carried in the context: the assessment run ID and, during per-category
// evaluation, the category under evaluation. Use NewNop in tests that do
// not assert on log output.
package logging
