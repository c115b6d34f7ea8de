// Package alignment performs cross-category analysis over completed
// category evaluations: detecting antagonistic recommendation pairs,
// attaching conflict-aware guidance, and collapsing near-duplicate
// recommendations.
//
// Conflict detection is a stateless keyword-pair scan over fixed category
// pairs; an empty result is valid and expected. Deduplication compares
// cosine similarity of recommendation text vectors, obtained from the
// embedding service when available and otherwise from a deterministic
// bag-of-words fallback built purely from the candidate set.
package alignment
