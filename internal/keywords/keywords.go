// Package keywords provides the token extraction shared by content relevance
// scoring, evidence scoring, deduplication, and pattern analysis. All
// extraction is deterministic: tokens keep first-seen order when deduplicated.
package keywords

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

var alphaToken = regexp.MustCompile(`[a-zA-Z]+`)

// stopWords are excluded from content keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "from": {},
}

// noteStopWords are excluded when pulling key terms out of free-text
// investigator notes.
var noteStopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {},
	"have": {}, "been": {}, "will": {},
}

// Tokens returns the lower-cased alphabetic tokens of s with length >= minLen,
// in order of appearance, duplicates included.
func Tokens(s string, minLen int) []string {
	raw := alphaToken.FindAllString(strings.ToLower(s), -1)
	out := raw[:0]
	for _, tok := range raw {
		if len(tok) >= minLen {
			out = append(out, tok)
		}
	}
	return out
}

// TokenSet returns the distinct lower-cased alphabetic tokens of s with
// length >= minLen.
func TokenSet(s string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(s, minLen) {
		set[tok] = struct{}{}
	}
	return set
}

// PathKeywords extracts identifying tokens from a file path: each path
// segment longer than two characters contributes its alphabetic tokens of
// at least four characters.
func PathKeywords(path string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if len(part) <= 2 {
			continue
		}
		for _, tok := range Tokens(part, 4) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// ContentKeywords extracts significant terms from free text: alphabetic
// tokens of at least five characters with stop words removed, deduplicated
// in first-seen order.
func ContentKeywords(content string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokens(content, 5) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// NoteTerms extracts up to limit key terms from investigator notes:
// alphabetic tokens of at least four characters, minus a small stop-word set,
// deduplicated in first-seen order.
func NoteTerms(notes string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokens(notes, 4) {
		if _, stop := noteStopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Intersect returns the number of tokens present in both sets.
func Intersect(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// Fingerprint returns an order-independent hash of the distinct significant
// words of content. Token-set equality implies an identical fingerprint
// regardless of the original word order.
func Fingerprint(content string) string {
	set := TokenSet(content, 4)
	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	h := sha256.New()
	for _, tok := range tokens {
		h.Write([]byte(tok))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
