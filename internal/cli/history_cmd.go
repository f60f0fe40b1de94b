// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Stored prompt history management for the coze CLI.
//
// Subcommands:
//
//	coze history            List stored prompts (newest last)
//	coze history list       Same as above
//	  --limit N             Show at most N entries
//	coze history clear      Delete all stored entries
//	  --confirm             Required confirmation flag
//	coze history path       Print the history database location
package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/storage"
	"github.com/coze-chat/coze-tui/internal/util"
)

// HandleHistory handles the "history" command.
func HandleHistory(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list":
		return historyList(parser)
	case "clear":
		return historyClear(parser)
	case "path":
		return historyPath()
	default:
		return fmt.Errorf("unknown history subcommand %q (want list, clear, or path)", parser.Subcommand())
	}
}

// openStore opens the history database at the configured location.
func openStore() (*storage.HistoryStore, error) {
	cfg := config.Global()

	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return storage.Open(path, cfg.History.MaxEntries)
}

func historyList(parser *ArgParser) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(mutedStyle.Render("history is empty"))
		return nil
	}

	limit := len(entries)
	if flag := parser.Flag("limit"); flag != "" {
		n, err := strconv.Atoi(flag)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid --limit value %q", flag)
		}
		limit = n
	}
	if limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}

	for _, e := range entries {
		fmt.Printf("%s  %s  %s\n",
			mutedStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")),
			labelStyle.Render("["+e.Mode+"]"),
			util.TruncateRunes(e.Prompt, 70))
	}
	return nil
}

func historyClear(parser *ArgParser) error {
	if !parser.BoolFlag("confirm") {
		return errors.New("history clear is destructive; re-run with --confirm")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println(valueStyle.Render("[cleared]") + " all history entries removed")
	return nil
}

func historyPath() error {
	cfg := config.Global()
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return err
		}
	}
	fmt.Println(path)
	return nil
}
