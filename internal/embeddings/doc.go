// Package embeddings provides embedding generation for recommendation
// deduplication and evidence inference.
//
// The Service talks to a TEI-compatible HTTP endpoint. Consumers reach it
// through the Embedder interface and must treat any failure as recoverable:
// embedding is a deduplication heuristic, never a correctness dependency,
// and every call site is required to fall back to a deterministic
// bag-of-words computation instead of propagating the error.
//
// CachedEmbedder adds a process-wide, bounded, write-once cache keyed by a
// hash of the normalized text. Entries are never invalidated; eviction is
// oldest-first when the bound is reached.
package embeddings
