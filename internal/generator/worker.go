// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/coze-chat/coze-tui/internal/engine"
)

// =============================================================================
// GENERATION WORKER
// =============================================================================

// request is one queued generation request.
type request struct {
	id     PromptID
	prompt string
}

// worker owns the generation engine and the goroutine that runs it.
//
// Concurrency model: exactly one background goroutine per worker, created by
// startWorker and torn down exactly once by shutdown. The engine is touched
// only from that goroutine; the consumer thread communicates through the
// requests channel, the cancel manager, and the delivery queue.
type worker struct {
	eng   engine.Engine
	queue *messageQueue

	// requests holds at most one pending request. submit replaces a stale
	// pending request instead of blocking behind it.
	requests chan request

	quit chan struct{}
	done chan struct{}

	cancelMgr *cancelManager
	nextID    atomic.Uint64

	shutdownOnce sync.Once
}

// startWorker spawns the worker goroutine for the given engine.
func startWorker(eng engine.Engine) *worker {
	w := &worker{
		eng:       eng,
		queue:     &messageQueue{},
		requests:  make(chan request, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		cancelMgr: newCancelManager(),
	}
	go w.loop()
	return w
}

// loop waits for submitted prompts and runs one generation at a time.
// It exits when quit is closed, releasing the engine on the way out.
func (w *worker) loop() {
	defer close(w.done)
	defer w.eng.Close()

	for {
		select {
		case <-w.quit:
			return
		case req := <-w.requests:
			w.generate(req)
		}
	}
}

// generate runs the engine for one request, feeding each fragment into the
// delivery queue tagged with the request's PromptID.
//
// Cancellation (supersession, Stop, shutdown) surfaces as context.Canceled,
// which is not an error: the consumer filters stale fragments by id, so an
// abandoned request simply goes quiet. Any other engine failure enqueues a
// single Error message and ends the request without crashing the worker.
func (w *worker) generate(req request) {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelMgr.set(cancel)
	defer cancel()

	// A submit racing with request pickup could otherwise start a request
	// that is already superseded. submit bumps nextID before it fires the
	// cancel, and the cancel was installed above before this load, so a
	// superseding submit is either visible here or has already cancelled ctx.
	if req.id != PromptID(w.nextID.Load()) {
		return
	}

	// A shutdown racing with request pickup must still abort generation.
	stop := make(chan struct{})
	go func() {
		select {
		case <-w.quit:
			cancel()
		case <-stop:
		}
	}()
	defer close(stop)

	err := w.eng.Generate(ctx, req.prompt, func(fragment string) {
		w.queue.push(Token{ID: req.id, Text: fragment})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		w.queue.push(Error{Message: err.Error()})
	}
}

// submit enqueues a new generation request and returns its freshly minted
// PromptID. The id is minted before generation begins so the caller can
// start filtering before any fragment arrives.
//
// If a previous request is still in flight it is superseded: its context is
// cancelled immediately (the resource-conserving choice; the engine stops
// computing) and any of its fragments already in the delivery queue are left
// for the consumer's id filter to discard.
func (w *worker) submit(prompt string) PromptID {
	id := PromptID(w.nextID.Add(1))

	// Abort the in-flight request before queueing the new one.
	w.cancelMgr.cancel()

	req := request{id: id, prompt: prompt}
	for {
		select {
		case w.requests <- req:
			return id
		default:
		}
		// A stale request is still pending; drop it so the new one wins
		// instead of blocking behind output nobody wants.
		select {
		case <-w.requests:
		default:
		}
	}
}

// requestStop abandons the in-flight request at the next fragment boundary.
// Already-queued fragments are not cleared; correctness relies on the
// consumer's id filtering, not on queue purging.
func (w *worker) requestStop() {
	w.cancelMgr.cancel()
}

// shutdown signals the worker goroutine to terminate and blocks until it has
// fully exited and released the engine. Idempotent: a second call returns
// immediately.
func (w *worker) shutdown() {
	w.shutdownOnce.Do(func() {
		w.cancelMgr.cancel()
		close(w.quit)
	})
	<-w.done
}
