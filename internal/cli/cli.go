// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for coze.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdHistory
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Mode  string // generator mode override: local, cloud, echo
	Model string // model override
	Quiet bool

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after the command token
	Raw []string
}

const usageText = `coze - terminal chat for local and cloud language models

Coze streams replies from a local Ollama server, an OpenRouter-compatible
cloud endpoint, or a built-in offline echo backend.

Usage:
  coze                       Start the chat TUI (default)
  coze ask "question"        Ask a single question and exit
  coze chat                  Line-based REPL (no TUI)
  coze config [show|get|set|path]
                             Inspect or change configuration
  coze history [list|clear|path]
                             Manage stored prompt history
  coze version               Show version information
  coze help                  Show this help

Global flags:
  --mode local|cloud|echo    Backend to use (overrides config)
  --model NAME               Model to use (overrides config)
  -q, --quiet                Minimal output

Configuration:
  File:  ~/.coze/config.toml (or config.json)
  Env:   COZE_MODE, COZE_API_KEY, COZE_MODEL, COZE_CLOUD_MODEL,
         COZE_OLLAMA_URL, COZE_THEME

Examples:
  coze
  coze --mode echo
  coze ask "What is a goroutine?"
  coze config set generator.default_mode cloud
  coze history clear
`

// Parse reads os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]

	remaining, args := parseGlobalFlags(raw)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdConfig, args

	case "history":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdHistory, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown token: treat the whole line as an ask query. This makes
		// `coze why is the sky blue` just work.
		args.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags strips global flags from the argument list.
func parseGlobalFlags(raw []string) ([]string, Args) {
	var args Args
	var remaining []string

	i := 0
	for i < len(raw) {
		switch raw[i] {
		case "--mode":
			if i+1 < len(raw) {
				args.Mode = raw[i+1]
				i += 2
				continue
			}
			i++
		case "--model", "-m":
			if i+1 < len(raw) {
				args.Model = raw[i+1]
				i += 2
				continue
			}
			i++
		case "--quiet", "-q":
			args.Quiet = true
			i++
		default:
			if v, ok := strings.CutPrefix(raw[i], "--mode="); ok {
				args.Mode = v
			} else if v, ok := strings.CutPrefix(raw[i], "--model="); ok {
				args.Model = v
			} else {
				remaining = append(remaining, raw[i])
			}
			i++
		}
	}

	return remaining, args
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("coze %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage text.
func HandleHelp() {
	fmt.Print(usageText)
}
