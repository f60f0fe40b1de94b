// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of coze: argument
// parsing, the one-shot ask command, the line-based chat REPL, and the
// config and history management subcommands.
//
// # Commands
//
//   - (default)  Start the chat TUI
//   - ask        Send one prompt, stream the reply, exit
//   - chat       Readline-style REPL with persistent input history
//   - config     Show, get, and set configuration values
//   - history    List and clear the stored prompt history
//   - version    Print version information
//   - help       Print usage
//
// # Terminal Behavior
//
// Output adapts to the environment: markdown rendering and colors on a TTY,
// plain streaming text when piped, and NO_COLOR is respected.
package cli
