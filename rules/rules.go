// Package rules applies deterministic transcript cleanup before text is
// typed: a word-level substitution table (spoken trigger words mapped to
// literal replacements, including newlines), then line collapsing.
package rules

import (
	"regexp"
	"sort"
	"strings"
)

type sub struct {
	re          *regexp.Regexp
	replacement string
}

// Engine holds compiled word substitutions. A nil *Engine applies
// nothing, so callers need no guard.
type Engine struct {
	subs []sub
}

// NewEngine compiles a word -> replacement table. Matching is
// case-insensitive and whole-word; replacements may contain "\n" to
// split lines. Rules are applied longest-word-first so "new paragraph"
// wins over "new".
func NewEngine(table map[string]string) *Engine {
	words := make([]string, 0, len(table))
	for w := range table {
		if strings.TrimSpace(w) != "" {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	e := &Engine{}
	for _, w := range words {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(w)) + `\b`)
		if err != nil {
			continue
		}
		e.subs = append(e.subs, sub{re: re, replacement: table[w]})
	}
	return e
}

// Apply runs every substitution over the text.
func (e *Engine) Apply(text string) string {
	if e == nil {
		return text
	}
	for _, s := range e.subs {
		// Via the func form so "$" in a replacement stays literal
		// instead of expanding as a capture-group reference.
		repl := s.replacement
		text = s.re.ReplaceAllStringFunc(text, func(string) string { return repl })
	}
	return text
}

// CollapseLines trims every line, drops the ones left empty, and joins
// the remainder with single newlines.
func CollapseLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Clean is the full pre-typing pipeline: substitutions, then collapse.
func Clean(e *Engine, text string) string {
	return CollapseLines(e.Apply(text))
}
