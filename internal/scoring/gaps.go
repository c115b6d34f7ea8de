package scoring

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// regexMetaChars marks a gap pattern as a literal regex fragment rather
	// than a plain phrase.
	regexMetaChars = regexp.MustCompile(`[()\|\[\]?+*]`)
)

// normalizeText lower-cases and collapses whitespace runs to single spaces.
func normalizeText(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(text), " ")
}

// compileGapPattern builds the matcher for one declared gap pattern.
// Patterns containing regex metacharacters are compiled as-is; plain
// phrases are escaped token-by-token and joined with \s+ inside word
// boundaries so a pattern cannot match across unrelated words.
func compileGapPattern(raw string) *regexp.Regexp {
	norm := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")
	if norm == "" {
		return nil
	}

	var patternStr string
	if regexMetaChars.MatchString(norm) {
		patternStr = norm
	} else {
		tokens := strings.Fields(norm)
		escaped := make([]string, len(tokens))
		for i, tok := range tokens {
			escaped[i] = regexp.QuoteMeta(tok)
		}
		patternStr = `\b` + strings.Join(escaped, `\s+`) + `\b`
	}

	re, err := regexp.Compile(`(?i)` + patternStr)
	if err != nil {
		// Invalid declared regex fragments are skipped, not fatal.
		return nil
	}
	return re
}

// EvaluateGaps checks each gap's patterns against the normalized text. A
// gap is matched when any of its patterns match. Gap evaluation is a total
// function: malformed patterns are skipped and never raise.
func EvaluateGaps(text string, gaps []GapDefinition) []GapResult {
	norm := normalizeText(text)

	results := make([]GapResult, 0, len(gaps))
	for _, gap := range gaps {
		result := GapResult{
			ID:                         gap.ID,
			Label:                      gap.Label,
			Detail:                     gap.Detail,
			Practice:                   gap.Practice,
			MatchedPatterns:            []string{},
			RecommendationHintKeywords: gap.RecommendationHintKeywords,
		}
		for _, raw := range gap.Patterns {
			re := compileGapPattern(raw)
			if re == nil {
				continue
			}
			if re.MatchString(norm) {
				result.MatchedPatterns = append(result.MatchedPatterns, raw)
			}
		}
		result.Matched = len(result.MatchedPatterns) > 0
		results = append(results, result)
	}
	return results
}
