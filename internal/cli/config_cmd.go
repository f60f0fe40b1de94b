// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing for the coze CLI.
//
// Subcommands:
//
//	coze config            Show the full configuration (secrets redacted)
//	coze config show       Same as above
//	coze config get KEY    Print one value (dot notation, e.g. ui.theme)
//	coze config set KEY V  Set a value and save
//	coze config keys       List all settable keys
//	coze config path       Print the config file location
package cli

import (
	"errors"
	"fmt"

	"github.com/coze-chat/coze-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return configShow()
	case "get":
		return configGet(parser.Positional(1))
	case "set":
		return configSet(parser.Positional(1), parser.Positional(2))
	case "keys":
		return configKeys()
	case "path":
		return configPath()
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, get, set, keys, or path)", parser.Subcommand())
	}
}

func configShow() error {
	fmt.Print(config.Global().String())
	return nil
}

func configGet(key string) error {
	if key == "" {
		return errors.New("usage: coze config get KEY")
	}
	value, err := config.Global().Get(key)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", value)
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return errors.New("usage: coze config set KEY VALUE")
	}

	cfg := config.Global().Clone()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	config.SetGlobal(cfg)

	fmt.Printf("%s %s = %s\n", valueStyle.Render("[saved]"), key, value)
	return nil
}

func configKeys() error {
	for _, key := range config.GetAllKeys() {
		fmt.Println(key)
	}
	return nil
}

func configPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
