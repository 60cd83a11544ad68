// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package aliasrule

import (
	"log/slog"
	"slices"
	"time"

	"github.com/altalias-project/altalias/lib/clock"
)

const (
	// MinimumBudget is the floor on the wall-clock time one call to
	// [RuleSet.Matches] may spend, regardless of how few patterns the
	// set holds.
	MinimumBudget = 2 * time.Second

	// PerRuleBudget is the per-pattern contribution to the budget.
	// The effective budget is max(MinimumBudget, n * PerRuleBudget)
	// for a set of n patterns.
	PerRuleBudget = 500 * time.Millisecond
)

// RuleSet is the immutable compiled allow-list for one room. Blocking
// on user-supplied regular expressions is the main hazard here: a
// crafted pattern with catastrophic backtracking could otherwise pin
// the bot for arbitrary time on every publish attempt. Matches bounds
// its total wall-clock time by the set's budget, enforced at two
// levels: each pattern's regexp engine carries the budget as its match
// timeout, and the deadline is re-checked between patterns. When the
// budget runs out the candidate is denied, never errored.
//
// A RuleSet is safe for concurrent use. Config reload builds a fresh
// RuleSet rather than mutating an existing one.
type RuleSet struct {
	rules  []Rule
	budget time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

// NewRuleSet builds the compiled allow-list for one room from already
// compiled rules. The clock drives the evaluation deadline; tests
// inject a fake to exercise timeout behavior without real waiting.
func NewRuleSet(rules []Rule, clk clock.Clock, logger *slog.Logger) *RuleSet {
	budget := time.Duration(len(rules)) * PerRuleBudget
	if budget < MinimumBudget {
		budget = MinimumBudget
	}
	set := &RuleSet{
		rules:  slices.Clone(rules),
		budget: budget,
		clock:  clk,
		logger: logger,
	}
	// The engine-level timeout stops a single pattern from eating
	// more than the whole budget; the between-pattern deadline check
	// in Matches handles the cumulative case.
	for _, rule := range set.rules {
		rule.re.MatchTimeout = budget
	}
	return set
}

// Len returns the number of rules in the set.
func (s *RuleSet) Len() int { return len(s.rules) }

// Budget returns the wall-clock budget for one Matches call.
func (s *RuleSet) Budget() time.Duration { return s.budget }

// Patterns returns the original pattern texts in rule order. The
// returned slice is a copy.
func (s *RuleSet) Patterns() []string {
	patterns := make([]string, len(s.rules))
	for i, rule := range s.rules {
		patterns[i] = rule.pattern
	}
	return patterns
}

// Matches reports whether any rule matches the entire alias string.
// Evaluation is bounded by the set's budget: if the budget is
// exhausted before all rules have been tried, the remaining rules are
// skipped and the alias is denied. A timeout is a deny, not an error,
// so a pathological pattern degrades to rejecting aliases rather than
// breaking the publish command.
//
// An empty set matches nothing. A room configured with an empty
// formats list therefore denies every alias; the localpart fallback in
// [Allowed] applies only to rooms with no configuration at all.
func (s *RuleSet) Matches(alias string) bool {
	deadline := s.clock.Now().Add(s.budget)
	for _, rule := range s.rules {
		if s.clock.Now().After(deadline) {
			s.logger.Debug("alias rule evaluation exceeded its time budget, denying",
				"alias", alias,
				"budget", s.budget)
			return false
		}
		matched, err := rule.re.MatchString(alias)
		if err != nil {
			// The engine hit its match timeout on this pattern.
			// Skip it; the deadline check above ends the loop if
			// the overall budget is gone too.
			s.logger.Debug("alias pattern evaluation timed out, skipping",
				"pattern", rule.pattern,
				"alias", alias,
				"error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
