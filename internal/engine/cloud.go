// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/coze-chat/coze-tui/internal/cloud"
)

// =============================================================================
// CLOUD ENGINE (OPENROUTER)
// =============================================================================

// CloudOptions configures the cloud backend.
type CloudOptions struct {
	APIKey  string
	BaseURL string
	Model   string
}

// cloudEngine generates replies through an OpenRouter-compatible API.
type cloudEngine struct {
	client *cloud.Client
}

// NewCloud constructs the cloud-backed engine. A missing API key is a
// construction failure, not a per-prompt one.
func NewCloud(opts CloudOptions) (Engine, error) {
	client := cloud.NewClient(opts.APIKey, opts.BaseURL, opts.Model)
	if !client.IsConfigured() {
		return nil, ErrNoBackend
	}
	return &cloudEngine{client: client}, nil
}

func (e *cloudEngine) Generate(ctx context.Context, prompt string, emit func(fragment string)) error {
	messages := []cloud.ChatMessage{cloud.NewUserMessage(prompt)}

	return e.client.ChatStream(ctx, messages, func(chunk cloud.StreamChunk) {
		if content := chunk.GetContent(); content != "" {
			emit(content)
		}
	})
}

func (e *cloudEngine) Close() error {
	return nil
}
