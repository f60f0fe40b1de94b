// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import "sync"

// =============================================================================
// DELIVERY QUEUE
// =============================================================================

// messageQueue is the FIFO delivery queue between the worker and the facade.
//
// The worker goroutine is the sole producer and the facade (consumer thread)
// the sole consumer. The queue is unbounded so the producer never blocks on a
// slow consumer; the consumer side drains at most one message per call and
// never blocks.
//
// Thread-safety: all operations are protected by a mutex since pushes happen
// in the worker goroutine while pops happen in the UI loop.
type messageQueue struct {
	mu    sync.Mutex
	items []Message
}

// push appends a message to the tail of the queue.
func (q *messageQueue) push(m Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, m)
}

// pop removes and returns the message at the head of the queue, or nil when
// the queue is empty. It never blocks.
func (q *messageQueue) pop() Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	m := q.items[0]
	q.items[0] = nil // release for GC
	q.items = q.items[1:]
	return m
}

// len reports the number of queued messages.
func (q *messageQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
