// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import (
	"github.com/coze-chat/coze-tui/internal/config"
	"github.com/coze-chat/coze-tui/internal/engine"
)

// =============================================================================
// GENERATOR FACADE
// =============================================================================

// Generator is the single consumer-facing handle on the generation
// subsystem. It owns the worker and the read side of the delivery queue.
//
// A Generator is driven by one consumer (the UI loop): SendPrompt,
// NextMessage, Stop, and Shutdown are all called from that thread. The
// worker goroutine is the only other thread of control.
type Generator struct {
	mode   Mode
	worker *worker
}

// New constructs the engine for the given mode and starts its worker.
//
// Engine construction failure is fatal to the Generator and is returned
// synchronously here rather than deferred into the message stream.
func New(mode Mode) (*Generator, error) {
	eng, err := NewEngine(mode, config.Global())
	if err != nil {
		return nil, err
	}
	return newWithEngine(eng, mode), nil
}

// newWithEngine wires an already-constructed engine to a fresh worker.
// Split out from New so tests can inject deterministic engines.
func newWithEngine(eng engine.Engine, mode Mode) *Generator {
	return &Generator{
		mode:   mode,
		worker: startWorker(eng),
	}
}

// NewEngine maps a Mode onto a backend constructor. Exposed so one-shot
// consumers (the CLI ask and chat commands) can drive an engine directly
// without a worker.
func NewEngine(mode Mode, cfg *config.Config) (engine.Engine, error) {
	switch mode {
	case ModeCloud:
		return engine.NewCloud(engine.CloudOptions{
			APIKey:  cfg.Cloud.APIKey,
			BaseURL: cfg.Cloud.BaseURL,
			Model:   cfg.Cloud.Model,
		})
	case ModeEcho:
		return engine.NewEcho(), nil
	default:
		return engine.NewLocal(engine.LocalOptions{
			BaseURL: cfg.Local.OllamaURL,
			Model:   cfg.Local.OllamaModel,
		})
	}
}

// SendPrompt submits a prompt and returns its PromptID before generation
// begins.
//
// The caller is expected to drain any previously queued fragments (calling
// NextMessage until it returns nil) before sending, so leftover output from
// an abandoned reply is never misattributed. That draining lives with the
// caller because only the caller knows when it has finished displaying the
// previous reply.
func (g *Generator) SendPrompt(text string) PromptID {
	return g.worker.submit(text)
}

// NextMessage returns at most one pending message, or nil when the queue is
// empty. It never blocks: this is the liveness property that keeps the
// interface responsive while generation runs in the background.
func (g *Generator) NextMessage() Message {
	return g.worker.queue.pop()
}

// Stop abandons the in-flight generation without tearing down the worker.
// Best-effort and asynchronous: fragments already queued for the stopped
// prompt may still be delivered, carrying the old id.
func (g *Generator) Stop() {
	g.worker.requestStop()
}

// Shutdown terminates the worker and blocks until its goroutine has exited
// and the engine is released. Called once at application teardown; calling
// it again is safe and returns immediately.
func (g *Generator) Shutdown() {
	g.worker.shutdown()
}

// Mode returns the backend mode fixed at construction.
func (g *Generator) Mode() Mode {
	return g.mode
}
