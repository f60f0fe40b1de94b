// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import (
	"fmt"
	"strings"
)

// =============================================================================
// GENERATOR MODE
// =============================================================================

// Mode selects which generation engine backend a Generator uses. The mode is
// fixed at construction; switching modes means constructing a new Generator.
type Mode int

const (
	// ModeLocal uses a local Ollama server (line-delimited JSON streaming).
	ModeLocal Mode = iota
	// ModeCloud uses an OpenRouter-compatible endpoint (SSE streaming).
	ModeCloud
	// ModeEcho uses the built-in offline engine that replays the prompt
	// word-by-word. Useful for demos and for running without any backend.
	ModeEcho
)

// Description returns a short human-readable name for display in titles and
// status lines.
func (m Mode) Description() string {
	switch m {
	case ModeLocal:
		return "Local"
	case ModeCloud:
		return "Cloud"
	case ModeEcho:
		return "Echo"
	default:
		return "Unknown"
	}
}

// String returns the configuration token for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeCloud:
		return "cloud"
	case ModeEcho:
		return "echo"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration token into a Mode. Matching is
// case-insensitive. An empty token yields ModeLocal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return ModeLocal, nil
	case "cloud":
		return ModeCloud, nil
	case "echo":
		return ModeEcho, nil
	default:
		return ModeLocal, fmt.Errorf("unknown generator mode %q (want local, cloud, or echo)", s)
	}
}
