package filter

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// CompiledTerm holds either a plain substring or a compiled regex for matching.
type CompiledTerm struct {
	plain string         // folded substring (used when regex is nil)
	regex *regexp.Regexp // compiled regex (nil for plain terms)
}

// CompileTerms pre-compiles a list of term strings into CompiledTerms.
// Terms wrapped in /slashes/ are treated as case-insensitive regex.
// Invalid regex falls back to a plain substring match on the entire string (including slashes).
// Empty/whitespace-only terms are skipped.
func CompileTerms(terms []string) []CompiledTerm {
	compiled := make([]CompiledTerm, 0, len(terms))
	for _, raw := range terms {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if len(trimmed) >= 3 && trimmed[0] == '/' && trimmed[len(trimmed)-1] == '/' {
			pattern := trimmed[1 : len(trimmed)-1]
			re, err := regexp.Compile("(?i)" + pattern)
			if err == nil {
				compiled = append(compiled, CompiledTerm{regex: re})
				continue
			}
		}

		compiled = append(compiled, CompiledTerm{plain: fold(trimmed)})
	}
	return compiled
}

// MatchesAnyTerm reports whether the title matches any of the compiled terms.
// Titles are folded to lowercase ASCII first, so "Dragón" matches "dragon".
func MatchesAnyTerm(title string, terms []CompiledTerm) bool {
	if len(terms) == 0 || title == "" {
		return false
	}
	folded := fold(title)
	for _, t := range terms {
		if t.regex != nil {
			if t.regex.MatchString(folded) {
				return true
			}
			continue
		}
		if strings.Contains(folded, t.plain) {
			return true
		}
	}
	return false
}

func fold(value string) string {
	return strings.ToLower(unidecode.Unidecode(value))
}
