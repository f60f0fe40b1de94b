// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation history persistence for coze.
//
// Prompt/reply pairs are stored in a local SQLite database so prior prompts
// can be recalled across sessions via the history navigator.
//
// # Key Types
//
//   - HistoryStore: SQLite-backed store of prompt/reply pairs
//   - Entry: one persisted pair with identity and timing
//
// # Usage
//
// Open the store and append a prompt:
//
//	store, err := storage.Open(path, 1000)
//	id, err := store.Append(prompt, "local")
//	err = store.SetReply(id, reply)
//
// Feed the navigator:
//
//	entries, err := store.NavigatorEntries()
//
// # Storage Location
//
// The database lives at ~/.coze/history.db by default.
package storage
