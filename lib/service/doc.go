// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the shared scaffolding the bot binary is
// composed from:
//
//   - Session loading: read session.json from the state directory,
//     create an authenticated Matrix client and session.
//   - Sync loop: incremental Matrix /sync long-poll with backoff,
//     delivering responses to a caller-provided handler.
//
// The binary composes these utilities in its own main() function
// rather than subclassing a framework. The package provides building
// blocks, not a runtime.
package service
