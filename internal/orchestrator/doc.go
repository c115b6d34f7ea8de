// Package orchestrator drives the assessment lifecycle: a strictly forward
// state machine that sequences corpus assembly, concurrent per-category
// evaluation, cross-category alignment, and recommendation synthesis while
// emitting weighted progress.
//
// One AssessmentRun exists per Execute call and is owned exclusively by the
// orchestrator for that call's duration. Progress is monotonically
// non-decreasing and reaches exactly 100 on success. Cancellation forces the
// run to FAILED and suppresses any further progress notifications.
package orchestrator
