// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/generator"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParserSubcommandAndPositionals(t *testing.T) {
	p := NewArgParser([]string{"set", "ui.theme", "light"})

	if p.Subcommand() != "set" {
		t.Errorf("Subcommand = %q, want 'set'", p.Subcommand())
	}
	if p.Positional(1) != "ui.theme" {
		t.Errorf("Positional(1) = %q, want 'ui.theme'", p.Positional(1))
	}
	if p.Positional(2) != "light" {
		t.Errorf("Positional(2) = %q, want 'light'", p.Positional(2))
	}
	if p.Positional(5) != "" {
		t.Error("out-of-range positional should be empty")
	}
	if p.PositionalCount() != 3 {
		t.Errorf("PositionalCount = %d, want 3", p.PositionalCount())
	}
}

func TestArgParserFlags(t *testing.T) {
	p := NewArgParser([]string{"list", "--limit", "10", "--confirm", "--format=json"})

	if p.Flag("limit") != "10" {
		t.Errorf("Flag(limit) = %q, want '10'", p.Flag("limit"))
	}
	if !p.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) should be true")
	}
	if p.Flag("format") != "json" {
		t.Errorf("Flag(format) = %q, want 'json'", p.Flag("format"))
	}
	if p.BoolFlag("missing") {
		t.Error("unknown bool flag should be false")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--color=true"})

	if p.BoolFlag("json") {
		t.Error("--json=false should parse as false")
	}
	if !p.BoolFlag("color") {
		t.Error("--color=true should parse as true")
	}
}

// =============================================================================
// GLOBAL FLAG TESTS
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--mode", "echo", "ask", "hello", "-q"})

	if args.Mode != "echo" {
		t.Errorf("Mode = %q, want 'echo'", args.Mode)
	}
	if !args.Quiet {
		t.Error("Quiet should be true")
	}
	if len(remaining) != 2 || remaining[0] != "ask" || remaining[1] != "hello" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseGlobalFlagsEqualsForm(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--mode=cloud", "--model=gpt-x", "chat"})

	if args.Mode != "cloud" {
		t.Errorf("Mode = %q, want 'cloud'", args.Mode)
	}
	if args.Model != "gpt-x" {
		t.Errorf("Model = %q, want 'gpt-x'", args.Model)
	}
	if len(remaining) != 1 || remaining[0] != "chat" {
		t.Errorf("remaining = %v", remaining)
	}
}

// =============================================================================
// MODE RESOLUTION TESTS
// =============================================================================

func TestResolveModeFlagBeatsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Generator.DefaultMode = "local"

	mode, err := resolveMode(Args{Mode: "echo"}, cfg)
	if err != nil {
		t.Fatalf("resolveMode error: %v", err)
	}
	if mode != generator.ModeEcho {
		t.Errorf("mode = %v, want ModeEcho", mode)
	}
}

func TestResolveModeFallsBackToConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Generator.DefaultMode = "cloud"

	mode, err := resolveMode(Args{}, cfg)
	if err != nil {
		t.Fatalf("resolveMode error: %v", err)
	}
	if mode != generator.ModeCloud {
		t.Errorf("mode = %v, want ModeCloud", mode)
	}
}

func TestResolveModeRejectsGarbage(t *testing.T) {
	if _, err := resolveMode(Args{Mode: "quantum"}, config.Default()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestApplyModelOverride(t *testing.T) {
	cfg := config.Default()

	local := applyModelOverride(Args{Model: "llama3:8b"}, cfg, generator.ModeLocal)
	if local.Local.OllamaModel != "llama3:8b" {
		t.Errorf("local model = %q", local.Local.OllamaModel)
	}
	if cfg.Local.OllamaModel == "llama3:8b" {
		t.Error("override must not mutate the original config")
	}

	cloud := applyModelOverride(Args{Model: "some/model"}, cfg, generator.ModeCloud)
	if cloud.Cloud.Model != "some/model" {
		t.Errorf("cloud model = %q", cloud.Cloud.Model)
	}

	same := applyModelOverride(Args{}, cfg, generator.ModeLocal)
	if same != cfg {
		t.Error("no override should return the original config")
	}
}
