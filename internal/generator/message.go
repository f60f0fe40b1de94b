// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generator provides the asynchronous generation subsystem: a
// background worker that runs a text-generation engine and a consumer-facing
// facade that submits prompts and drains reply fragments without blocking.
package generator

// =============================================================================
// PROMPT IDENTITY
// =============================================================================

// PromptID identifies one submitted prompt's output stream.
//
// IDs are minted per SendPrompt call and are strictly increasing for the
// lifetime of the process. The zero value means "no prompt sent yet" and is
// never returned by SendPrompt, so a consumer can initialize its tracking
// state to NoPrompt and every real fragment will compare unequal until the
// first submission.
type PromptID uint64

// NoPrompt is the PromptID before any prompt has been submitted.
const NoPrompt PromptID = 0

// =============================================================================
// MESSAGES
// =============================================================================

// Message is a value emitted by the generation worker: either a reply
// fragment tagged with the prompt it belongs to, or an error notification.
//
// Messages are produced exclusively by the worker goroutine and consumed
// exclusively through Generator.NextMessage; there is no shared mutation.
type Message interface {
	isMessage()
}

// Token is a chunk of generated text delivered incrementally as part of one
// reply. Consumers compare ID against their active PromptID and discard
// mismatches; that filtering, not queue purging, is what drops stale output
// from a stopped or superseded generation.
type Token struct {
	ID   PromptID
	Text string
}

func (Token) isMessage() {}

// Error reports a generation-time failure. It is terminal for the in-flight
// prompt: no further Token messages for that prompt's ID will follow. The
// worker itself survives and accepts new submissions.
type Error struct {
	Message string
}

func (Error) isMessage() {}

// Error returns the error text.
func (e Error) Error() string {
	return e.Message
}
