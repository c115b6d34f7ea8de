package scoring

import (
	"regexp"
	"strings"
	"sync"
)

// phraseRegexps caches compiled phrase patterns. Entries are write-once and
// never invalidated, so concurrent readers need no further synchronization.
var phraseRegexps sync.Map // phrase -> *regexp.Regexp

// PhrasePresent reports whether phrase occurs in text as a whole word or a
// contiguous whitespace-separated word sequence. The phrase is lower-cased
// before matching; text is expected to be lower-cased by the caller.
//
// Matching is exact boundary matching only. There is no stemming or fuzzy
// matching: "coverage" does not match inside "discoverage", but it does
// match "coverage." with trailing punctuation.
func PhrasePresent(text, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" || text == "" {
		return false
	}

	re := compilePhrase(phrase)
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

// compilePhrase builds (or retrieves) the boundary-safe pattern for a phrase.
func compilePhrase(phrase string) *regexp.Regexp {
	if cached, ok := phraseRegexps.Load(phrase); ok {
		return cached.(*regexp.Regexp)
	}

	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return nil
	}
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}

	re, err := regexp.Compile(`\b` + strings.Join(escaped, `\s+`) + `\b`)
	if err != nil {
		return nil
	}
	phraseRegexps.Store(phrase, re)
	return re
}
