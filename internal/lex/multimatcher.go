// Package lex implements the ordered, regex-dispatched line matcher
// used by both the Gerber and Excellon interpreters: the grammar is
// declared as a list of named patterns, and the first full match wins.
package lex

import (
	"fmt"
	"regexp"
)

// Pattern is one named grammar rule paired with the handler that
// fires when it fully matches a line.
type Pattern struct {
	Name    string
	Regex   *regexp.Regexp
	Handler func(groups map[string]string) error
}

// P compiles pattern as an anchored regex and pairs it with handler.
func P(name, pattern string, handler func(map[string]string) error) Pattern {
	return Pattern{Name: name, Regex: regexp.MustCompile("^(?:" + pattern + ")$"), Handler: handler}
}

// ErrNoPatternMatched is returned when no pattern in the grammar fully
// matched a line. Interpretation proceeds past it; the line is simply
// unrecognized.
type ErrNoPatternMatched struct {
	Line string
}

func (e *ErrNoPatternMatched) Error() string {
	return fmt.Sprintf("no pattern matched: %q", e.Line)
}

// Matcher holds an ordered grammar and dispatches lines against it.
// Order is significant: the first pattern that fully matches a line
// wins, so more specific patterns (e.g. "key_value") must precede more
// general ones (e.g. "comment").
type Matcher struct {
	patterns []Pattern
}

// NewMatcher builds a Matcher from an ordered pattern list.
func NewMatcher(patterns ...Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// Match finds the first pattern that fully matches line and invokes
// its handler with the named capture groups. Returns
// ErrNoPatternMatched if no pattern matched; the caller decides
// whether that is fatal.
func (m *Matcher) Match(line string) error {
	for _, pat := range m.patterns {
		groups := fullMatchGroups(pat.Regex, line)
		if groups == nil {
			continue
		}
		return pat.Handler(groups)
	}
	return &ErrNoPatternMatched{Line: line}
}

// fullMatchGroups returns the named capture groups of re against s, or
// nil if re does not match the entire string.
func fullMatchGroups(re *regexp.Regexp, s string) map[string]string {
	matches := re.FindStringSubmatch(s)
	if matches == nil {
		return nil
	}
	names := re.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = matches[i]
	}
	return groups
}
