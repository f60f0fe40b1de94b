// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// TEST ENGINE
// =============================================================================

// fakeEngine is a deterministic engine for driving the worker in tests. Its
// generate function is swappable per test; closed counts Close calls.
type fakeEngine struct {
	generate func(ctx context.Context, prompt string, emit func(string)) error
	closed   atomic.Int32
}

func (f *fakeEngine) Generate(ctx context.Context, prompt string, emit func(fragment string)) error {
	if f.generate != nil {
		return f.generate(ctx, prompt, emit)
	}
	return nil
}

func (f *fakeEngine) Close() error {
	f.closed.Add(1)
	return nil
}

// wordEcho splits the prompt into words and emits each one, checking the
// context at every fragment boundary.
func wordEcho(ctx context.Context, prompt string, emit func(string)) error {
	for _, word := range strings.Fields(prompt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		emit(word)
	}
	return nil
}

// drainTokens polls NextMessage until the given id's stream has produced
// want fragments or the deadline passes.
func drainTokens(t *testing.T, g *Generator, id PromptID, want int) []string {
	t.Helper()

	var got []string
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out with %d/%d fragments for id %d", len(got), want, id)
		}
		msg := g.NextMessage()
		if msg == nil {
			time.Sleep(time.Millisecond)
			continue
		}
		if tok, ok := msg.(Token); ok && tok.ID == id {
			got = append(got, tok.Text)
		}
	}
	return got
}

// =============================================================================
// FACADE TESTS
// =============================================================================

func TestSendPromptDeliversTaggedFragmentsInOrder(t *testing.T) {
	g := newWithEngine(&fakeEngine{generate: wordEcho}, ModeEcho)
	defer g.Shutdown()

	id := g.SendPrompt("alpha beta gamma")
	if id == NoPrompt {
		t.Fatal("SendPrompt returned NoPrompt")
	}

	got := drainTokens(t, g, id, 3)
	want := []string{"alpha", "beta", "gamma"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPromptIDsStrictlyIncrease(t *testing.T) {
	g := newWithEngine(&fakeEngine{}, ModeEcho)
	defer g.Shutdown()

	prev := NoPrompt
	for i := 0; i < 5; i++ {
		id := g.SendPrompt("x")
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestNextMessageNeverBlocksWhenEmpty(t *testing.T) {
	g := newWithEngine(&fakeEngine{}, ModeEcho)
	defer g.Shutdown()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			g.NextMessage()
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NextMessage blocked on an empty queue")
	}
}

func TestSupersededPromptStopsProducing(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		if prompt == "slow" {
			close(started)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-release:
			}
			emit("stale")
			return nil
		}
		return wordEcho(ctx, prompt, emit)
	}}

	g := newWithEngine(eng, ModeEcho)
	defer g.Shutdown()
	defer close(release)

	stale := g.SendPrompt("slow")
	<-started
	fresh := g.SendPrompt("fresh reply")

	got := drainTokens(t, g, fresh, 2)
	if got[0] != "fresh" || got[1] != "reply" {
		t.Errorf("fresh fragments = %v", got)
	}

	// Whatever arrived for the stale id must have been produced before the
	// supersession point; none should follow the fresh reply.
	for {
		msg := g.NextMessage()
		if msg == nil {
			break
		}
		if tok, ok := msg.(Token); ok && tok.ID == stale {
			t.Errorf("stale fragment %q delivered after fresh reply drained", tok.Text)
		}
	}
}

func TestRapidResubmissionKeepsOnlyNewest(t *testing.T) {
	block := make(chan struct{})
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
		emit(prompt)
		return nil
	}}

	g := newWithEngine(eng, ModeEcho)
	defer g.Shutdown()

	// Flood faster than the worker picks up; only the last pending request
	// may win the capacity-1 slot.
	var last PromptID
	for i := 0; i < 10; i++ {
		last = g.SendPrompt("p")
	}
	close(block)

	got := drainTokens(t, g, last, 1)
	if got[0] != "p" {
		t.Errorf("fragment = %q, want 'p'", got[0])
	}
}

func TestGenerateSkipsSupersededRequest(t *testing.T) {
	ran := make(chan string, 2)
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		ran <- prompt
		return nil
	}}

	w := startWorker(eng)
	defer w.shutdown()

	// Mint two ids the way submit does: by the time the stale request is
	// picked up, a newer one has already been minted.
	w.nextID.Add(1)
	w.nextID.Add(1)

	w.generate(request{id: 1, prompt: "stale"})
	w.generate(request{id: 2, prompt: "fresh"})

	select {
	case got := <-ran:
		if got != "fresh" {
			t.Errorf("engine ran %q, want only the newest request", got)
		}
	default:
		t.Fatal("newest request never reached the engine")
	}
	select {
	case got := <-ran:
		t.Errorf("engine also ran %q; superseded request must not start", got)
	default:
	}
}

func TestSupersededRequestNeverRunsToCompletion(t *testing.T) {
	var completed sync.Map
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
		completed.Store(prompt, true)
		emit(prompt)
		return nil
	}}

	g := newWithEngine(eng, ModeEcho)
	defer g.Shutdown()

	// Hammer the pickup window: each round immediately supersedes its first
	// prompt. Whether the worker dequeues it before or after the superseding
	// submit, it must never run uncancelled to completion.
	for i := 0; i < 20; i++ {
		g.SendPrompt(fmt.Sprintf("stale-%d", i))
		g.SendPrompt(fmt.Sprintf("live-%d", i))
	}

	// Let the worker finish whatever survived.
	time.Sleep(200 * time.Millisecond)

	completed.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), "stale-") {
			t.Errorf("superseded prompt %v ran to completion", key)
		}
		return true
	})
}

func TestStopAbandonsInFlightGeneration(t *testing.T) {
	started := make(chan struct{})
	stopped := make(chan struct{})
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	}}

	g := newWithEngine(eng, ModeEcho)
	defer g.Shutdown()

	g.SendPrompt("long answer")
	<-started
	g.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the in-flight generation")
	}

	// No Error message: cancellation is not a failure.
	time.Sleep(10 * time.Millisecond)
	for {
		msg := g.NextMessage()
		if msg == nil {
			break
		}
		if _, ok := msg.(Error); ok {
			t.Error("cancellation surfaced as an Error message")
		}
	}
}

func TestStopWithNothingInFlightIsHarmless(t *testing.T) {
	g := newWithEngine(&fakeEngine{generate: wordEcho}, ModeEcho)
	defer g.Shutdown()

	g.Stop()
	g.Stop()

	id := g.SendPrompt("still works")
	got := drainTokens(t, g, id, 2)
	if got[0] != "still" || got[1] != "works" {
		t.Errorf("fragments = %v", got)
	}
}

func TestEngineFailureEnqueuesErrorAndWorkerSurvives(t *testing.T) {
	failing := errors.New("backend exploded")
	first := true
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		if first {
			first = false
			return failing
		}
		return wordEcho(ctx, prompt, emit)
	}}

	g := newWithEngine(eng, ModeEcho)
	defer g.Shutdown()

	g.SendPrompt("boom")

	var errMsg Error
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for Error message")
		}
		msg := g.NextMessage()
		if msg == nil {
			time.Sleep(time.Millisecond)
			continue
		}
		if e, ok := msg.(Error); ok {
			errMsg = e
			break
		}
	}
	if !strings.Contains(errMsg.Message, "backend exploded") {
		t.Errorf("Error message = %q", errMsg.Message)
	}

	// Worker still accepts prompts.
	id := g.SendPrompt("recovered fine")
	got := drainTokens(t, g, id, 2)
	if got[0] != "recovered" {
		t.Errorf("fragments after failure = %v", got)
	}
}

func TestShutdownClosesEngineAndIsIdempotent(t *testing.T) {
	eng := &fakeEngine{generate: wordEcho}
	g := newWithEngine(eng, ModeEcho)

	g.SendPrompt("a b c")
	g.Shutdown()
	g.Shutdown()
	g.Shutdown()

	if n := eng.closed.Load(); n != 1 {
		t.Errorf("engine closed %d times, want 1", n)
	}
}

func TestShutdownAbortsInFlightGeneration(t *testing.T) {
	started := make(chan struct{})
	eng := &fakeEngine{generate: func(ctx context.Context, prompt string, emit func(string)) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}

	g := newWithEngine(eng, ModeEcho)
	g.SendPrompt("forever")
	<-started

	done := make(chan struct{})
	go func() {
		g.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not unblock a hung generation")
	}
}

func TestModeIsFixedAtConstruction(t *testing.T) {
	g := newWithEngine(&fakeEngine{}, ModeCloud)
	defer g.Shutdown()

	if g.Mode() != ModeCloud {
		t.Errorf("Mode() = %v, want ModeCloud", g.Mode())
	}
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"local", ModeLocal, false},
		{"CLOUD", ModeCloud, false},
		{" echo ", ModeEcho, false},
		{"", ModeLocal, false},
		{"quantum", ModeLocal, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeDescription(t *testing.T) {
	if ModeLocal.Description() != "Local" {
		t.Errorf("ModeLocal.Description() = %q", ModeLocal.Description())
	}
	if ModeEcho.String() != "echo" {
		t.Errorf("ModeEcho.String() = %q", ModeEcho.String())
	}
}
