// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package aliasrule decides whether a room member may publish a given
// alternate room alias.
//
// A room either carries an explicit allow-list of regular expression
// patterns, or it carries none. With patterns, the candidate alias is
// allowed when any pattern matches the entire alias string, evaluated
// under a wall-clock budget so that pathological patterns cannot stall
// the bot. Without patterns, the candidate is allowed when its
// localpart equals the localpart of an alias the room already
// publishes.
//
// There are two compilation entry points with different strictness.
// [Compile] rejects invalid patterns with an error and backs the admin
// command that adds new patterns. [CompileAll] drops invalid patterns
// with a logged warning and backs config reload, where a single bad
// entry must not take the whole room's rules offline.
package aliasrule
