package alignment

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/assessd/internal/embeddings"
	"github.com/fyrsmithlabs/assessd/internal/logging"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

// DefaultDedupeThreshold is the cosine similarity above which two
// recommendations are treated as duplicates.
const DefaultDedupeThreshold = 0.90

// Deduplicator collapses near-duplicate recommendations. Vectors come from
// the embedding service when one is configured; when it is absent or fails
// the deduplicator degrades to a bag-of-words vectorizer built from the
// candidate set itself, so a run never fails on deduplication.
type Deduplicator struct {
	embedder  embeddings.Embedder
	threshold float64
	logger    *logging.Logger
}

// NewDeduplicator builds a Deduplicator. embedder may be nil; a threshold
// outside (0, 1] falls back to DefaultDedupeThreshold.
func NewDeduplicator(embedder embeddings.Embedder, threshold float64, logger *logging.Logger) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultDedupeThreshold
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Deduplicator{embedder: embedder, threshold: threshold, logger: logger}
}

// Dedupe returns the recommendations with near-duplicates removed. The
// first occurrence of each duplicate group is kept and input order is
// preserved. Inputs of length 0 or 1 are returned as-is.
func (d *Deduplicator) Dedupe(ctx context.Context, recs []scoring.Recommendation) []scoring.Recommendation {
	if len(recs) <= 1 {
		return recs
	}

	texts := make([]string, len(recs))
	for i, rec := range recs {
		texts[i] = rec.Title + "\n" + rec.Reasoning
	}
	vectors := d.vectorize(ctx, texts)

	kept := make([]scoring.Recommendation, 0, len(recs))
	keptVectors := make([][]float64, 0, len(recs))
	dropped := 0
	for i, rec := range recs {
		duplicate := false
		for _, kv := range keptVectors {
			if cosineSimilarity(vectors[i], kv) > d.threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			dropped++
			continue
		}
		kept = append(kept, rec)
		keptVectors = append(keptVectors, vectors[i])
	}

	if dropped > 0 {
		d.logger.Debug(ctx, "collapsed duplicate recommendations",
			zap.Int("input", len(recs)),
			zap.Int("kept", len(kept)))
	}
	return kept
}

// vectorize obtains one vector per text. Embedding failures are logged and
// absorbed by the fallback; they never surface to the caller.
func (d *Deduplicator) vectorize(ctx context.Context, texts []string) [][]float64 {
	if d.embedder != nil {
		embedded, err := d.embedder.EmbedDocuments(ctx, texts)
		if err == nil && len(embedded) == len(texts) {
			vectors := make([][]float64, len(embedded))
			for i, vec := range embedded {
				vectors[i] = make([]float64, len(vec))
				for j, v := range vec {
					vectors[i][j] = float64(v)
				}
			}
			return vectors
		}
		if err != nil {
			d.logger.Warn(ctx, "embedding service unavailable, using bag-of-words fallback", zap.Error(err))
		}
	}
	return bagOfWordsVectors(texts)
}

// bagOfWordsVectors builds L2-normalized term-count vectors over the
// vocabulary of the given texts. Tokens are lower-cased and must consist
// solely of letters. The vocabulary is ordered so the result is
// deterministic for a given input.
func bagOfWordsVectors(texts []string) [][]float64 {
	counts := make([]map[string]int, len(texts))
	vocab := make(map[string]int)
	for i, text := range texts {
		counts[i] = make(map[string]int)
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = strings.TrimFunc(tok, func(r rune) bool { return !unicode.IsLetter(r) })
			if tok == "" || !lettersOnly(tok) {
				continue
			}
			counts[i][tok]++
			vocab[tok] = 0
		}
	}

	terms := make([]string, 0, len(vocab))
	for term := range vocab {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for idx, term := range terms {
		vocab[term] = idx
	}

	vectors := make([][]float64, len(texts))
	for i, tc := range counts {
		vec := make([]float64, len(terms))
		for term, n := range tc {
			vec[vocab[term]] = float64(n)
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is empty or zero.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
