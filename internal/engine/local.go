// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/coze-chat/coze-tui/internal/ollama"
)

// =============================================================================
// LOCAL ENGINE (OLLAMA)
// =============================================================================

// LocalOptions configures the local Ollama backend.
type LocalOptions struct {
	BaseURL string
	Model   string
}

// localEngine generates replies through a local Ollama server.
type localEngine struct {
	client *ollama.Client
	model  string
}

// NewLocal constructs the Ollama-backed engine. Construction verifies the
// server is reachable so a missing backend fails fast instead of failing on
// the first prompt.
func NewLocal(opts LocalOptions) (Engine, error) {
	client := ollama.NewClient(&ollama.ClientConfig{
		BaseURL:      opts.BaseURL,
		DefaultModel: opts.Model,
	})

	if err := client.CheckRunning(context.Background()); err != nil {
		return nil, ErrNoBackend
	}

	return &localEngine{
		client: client,
		model:  opts.Model,
	}, nil
}

func (e *localEngine) Generate(ctx context.Context, prompt string, emit func(fragment string)) error {
	messages := []ollama.Message{ollama.NewUserMessage(prompt)}

	return e.client.ChatStream(ctx, e.model, messages, func(chunk ollama.StreamChunk) {
		if chunk.Content != "" {
			emit(chunk.Content)
		}
	})
}

// Close is a no-op: the Ollama client holds no persistent connections beyond
// the standard transport's idle pool.
func (e *localEngine) Close() error {
	return nil
}
