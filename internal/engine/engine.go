// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine defines the text-generation engine contract and the
// backends that implement it. An engine is an opaque producer of reply
// fragments; everything about prompt identity, queuing, and cancellation
// policy lives above it in the generator package.
package engine

import (
	"context"
	"errors"
)

// =============================================================================
// ENGINE CONTRACT
// =============================================================================

// Engine produces a sequence of text fragments for a prompt.
//
// Generate blocks until the reply is complete, the context is cancelled, or
// the backend fails. emit is called once per fragment, in production order,
// from the calling goroutine. A cancelled context must stop fragment
// production at the next fragment boundary and return ctx.Err().
//
// Close releases backend resources. After Close, Generate must not be called.
type Engine interface {
	Generate(ctx context.Context, prompt string, emit func(fragment string)) error
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoBackend indicates the engine could not be constructed because its
	// backend is unreachable or unconfigured. Construction failures are
	// fatal to Generator construction and are surfaced synchronously.
	ErrNoBackend = errors.New("generation backend unavailable")
)
