// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package aliasrule

import (
	"fmt"
	"log/slog"

	"github.com/dlclark/regexp2"
)

// Rule is one compiled allow-list pattern. The original pattern text
// is retained verbatim for persistence and display; the compiled form
// is anchored so that a match must cover the entire alias string.
//
// Rules are immutable after compilation and safe for concurrent use.
type Rule struct {
	pattern string
	re      *regexp2.Regexp
}

// Compile compiles a single allow-list pattern, strictly: an invalid
// pattern is an error. This is the entry point for the admin command
// that adds patterns, where a typo must be reported to the sender
// rather than silently accepted and later dropped.
//
// Patterns match the full alias string including the '#' sigil and
// server name, and are anchored at both ends before compilation:
// "#test.*:example\.org" matches "#test-1:example.org" in full, while
// an unanchored substring hit is not a match.
func Compile(pattern string) (Rule, error) {
	re, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return Rule{}, fmt.Errorf("aliasrule: compile pattern %q: %w", pattern, err)
	}
	return Rule{pattern: pattern, re: re}, nil
}

// CompileAll compiles a list of patterns leniently: patterns that fail
// to compile are dropped with a warning instead of failing the whole
// list. This is the entry point for config load and reload, where one
// bad entry in a room's formats must not take the room's remaining
// rules offline. Order of the surviving rules follows the input.
func CompileAll(patterns []string, logger *slog.Logger) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for _, pattern := range patterns {
		rule, err := Compile(pattern)
		if err != nil {
			logger.Warn("dropping alias pattern that does not compile",
				"pattern", pattern,
				"error", err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// Pattern returns the original pattern text as written, without the
// anchoring added at compile time.
func (r Rule) Pattern() string { return r.pattern }
