// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"strings"

	"golang.org/x/time/rate"
)

// =============================================================================
// ECHO ENGINE
// =============================================================================

// echoEngine replays the prompt back word by word at a fixed pace. It exists
// for offline use and for exercising the full streaming path in tests and
// demos without a model behind it.
type echoEngine struct {
	limiter *rate.Limiter
}

// NewEcho constructs the echo engine. Echo never fails to construct.
func NewEcho() Engine {
	// ~20 words/sec, enough to look like streaming without dragging.
	return &echoEngine{
		limiter: rate.NewLimiter(rate.Limit(20), 1),
	}
}

func (e *echoEngine) Generate(ctx context.Context, prompt string, emit func(fragment string)) error {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return nil
	}

	for i, word := range words {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		if i > 0 {
			emit(" ")
		}
		emit(word)
	}
	return nil
}

func (e *echoEngine) Close() error {
	return nil
}
