// coze - a terminal chat interface for local and cloud language models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coze-chat/coze-tui/internal/cli"
	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/generator"
	"github.com/coze-chat/coze-tui/internal/storage"
	"github.com/coze-chat/coze-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			fail(err)
		}
	case cli.CmdAsk:
		if err := cli.HandleAsk(args); err != nil {
			fail(err)
		}
	case cli.CmdChat:
		if err := cli.HandleChat(args); err != nil {
			fail(err)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fail(err)
		}
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			fail(err)
		}
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		if err := runTUI(args); err != nil {
			fail(err)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// runTUI starts the chat interface: generator worker, history store, config
// hot-reload watcher, and the Bubble Tea program.
func runTUI(args cli.Args) error {
	cfg := config.Global()

	modeToken := args.Mode
	if modeToken == "" {
		modeToken = cfg.Generator.DefaultMode
	}
	mode, err := generator.ParseMode(modeToken)
	if err != nil {
		return err
	}

	gen, err := generator.New(mode)
	if err != nil {
		return fmt.Errorf("could not start %s backend: %w", mode, err)
	}
	// Shutdown must complete before the process exits so no background
	// generation is orphaned.
	defer gen.Shutdown()

	var store *storage.HistoryStore
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path, err = storage.DefaultPath()
			if err != nil {
				return err
			}
		}
		store, err = storage.Open(path, cfg.History.MaxEntries)
		if err != nil {
			// History is a convenience; run without it rather than refusing
			// to start.
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// Pick up config file edits made while the TUI is running.
	if watcher, err := config.NewWatcher(nil); err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(
		chat.New(gen, store, cfg),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
