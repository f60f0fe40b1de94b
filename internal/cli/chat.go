// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-based interactive chat for the coze CLI.
//
// Handles "coze chat", a readline-style REPL for terminals where the full
// TUI is unwanted (ssh sessions, minimal environments). Input history is
// persisted to ~/.coze/chat_history.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/engine"
	"github.com/coze-chat/coze-tui/internal/generator"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation. Non-empty input is
// appended to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command: a REPL that streams replies to
// stdout.
func HandleChat(args Args) error {
	cfg := config.Global()

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
		printChatWelcome(mode)
	}

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput(promptStyle.Render("coze> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D) ends the session.
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") ||
			line == "/quit" || line == "/exit" {
			return nil
		}
		if line == "/help" {
			printChatHelp()
			continue
		}

		if err := streamReply(eng, line); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// streamReply runs one generation, printing fragments as they arrive.
// Ctrl+C aborts the reply without ending the session.
func streamReply(eng engine.Engine, prompt string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println()
	err := eng.Generate(ctx, prompt, func(fragment string) {
		fmt.Print(fragment)
	})
	fmt.Println()
	fmt.Println()

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, warningStyle.Render("[Cancelled]"))
		return nil
	}
	return err
}

func printChatWelcome(mode generator.Mode) {
	fmt.Println(infoStyle.Render("coze chat") + " " +
		mutedStyle.Render("("+mode.Description()+" backend)"))
	fmt.Println(mutedStyle.Render("Type /help for commands, exit to leave."))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println(labelStyle.Render("Commands:"))
	fmt.Println("  /help        Show this help")
	fmt.Println("  /quit, exit  End the session")
	fmt.Println("  Ctrl+C       Cancel the current reply")
	fmt.Println("  Up/Down      Navigate input history")
	fmt.Println()
}
