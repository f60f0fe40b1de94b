// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the coze CLI.
//
// Handles "coze ask", which sends one prompt to the configured backend and
// streams the reply to stdout. When stdout is a terminal the reply is
// collected and rendered as markdown; piped output stays plain and streams
// as it arrives.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/generator"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders markdown content for terminal display, falling back
// to the raw content if the renderer is unavailable.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// MODE RESOLUTION
// =============================================================================

// resolveMode picks the generator mode: CLI flag first, then config.
func resolveMode(args Args, cfg *config.Config) (generator.Mode, error) {
	token := args.Mode
	if token == "" {
		token = cfg.Generator.DefaultMode
	}
	return generator.ParseMode(token)
}

// applyModelOverride returns a config clone with the --model flag applied to
// whichever backend the mode selects.
func applyModelOverride(args Args, cfg *config.Config, mode generator.Mode) *config.Config {
	if args.Model == "" {
		return cfg
	}
	clone := cfg.Clone()
	switch mode {
	case generator.ModeCloud:
		clone.Cloud.Model = args.Model
	default:
		clone.Local.OllamaModel = args.Model
	}
	return clone
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	cfg := config.Global()

	question := strings.TrimSpace(args.Query)

	// Piped input is appended to (or replaces) the positional question.
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err == nil && len(data) > 0 {
			piped := strings.TrimSpace(string(data))
			if question == "" {
				question = piped
			} else {
				question = question + "\n" + piped
			}
		}
	}

	if question == "" {
		return errors.New("no question provided. Usage: coze ask \"your question\"")
	}

	mode, err := resolveMode(args, cfg)
	if err != nil {
		return err
	}
	cfg = applyModelOverride(args, cfg, mode)

	eng, err := generator.NewEngine(mode, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %s\n\n",
			infoStyle.Render("Backend:"),
			mode.Description())
	}

	// Ctrl+C aborts the in-flight generation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	useMarkdown := IsStdoutTTY()

	var reply strings.Builder
	err = eng.Generate(ctx, question, func(fragment string) {
		reply.WriteString(fragment)
		if !useMarkdown {
			fmt.Print(fragment)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("generation failed: %w", err)
	}

	if useMarkdown {
		fmt.Print(renderMarkdown(reply.String()))
	}
	fmt.Println()

	return nil
}
