// Package msgcodec encodes word counts into commit messages and decodes them
// back out. The commit message is the persistence medium: other tools may
// parse these suffixes, so the wire format below is a compatibility contract.
//
// Chapter-level commits carry " (<N> words)"; whole-project commits carry
// " (<N> total words)" so the two scopes stay distinguishable when scanning
// history.
package msgcodec

import (
	"fmt"
	"regexp"
	"strconv"
)

// Scope selects the encoding suffix variant.
type Scope int

const (
	// ScopeChapter marks a single-file commit: " (<N> words)".
	ScopeChapter Scope = iota
	// ScopeProject marks a whole-project commit: " (<N> total words)".
	ScopeProject
)

// countPattern matches a parenthesized integer immediately preceding the
// literal "word"/"words", optionally preceded by "total". Decoding is
// best-effort: human-authored messages simply never match.
var countPattern = regexp.MustCompile(`\((\d+) (?:total )?words?\)`)

// Encode appends the word-count suffix for the given scope to message.
func Encode(message string, words int, scope Scope) string {
	if scope == ScopeProject {
		return fmt.Sprintf("%s (%d total words)", message, words)
	}

	return fmt.Sprintf("%s (%d words)", message, words)
}

// Decode extracts an encoded word count from arbitrary message text.
// The second return value is false when the message carries no encoding.
// Decode never fails; messages authored by humans are an expected miss.
func Decode(message string) (int, bool) {
	match := countPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		// Digits too large for an int; treat as not encoded.
		return 0, false
	}

	return count, true
}
