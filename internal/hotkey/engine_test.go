// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Tests for the edge-triggered hotkey engine
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

import (
	"testing"
	"time"
)

// fakeTap records the installed handler so tests can inject raw key events.
type fakeTap struct {
	handler func(KeyEvent)
}

func (f *fakeTap) Install(handler func(KeyEvent)) error {
	f.handler = handler
	return nil
}

func (f *fakeTap) Uninstall() error {
	f.handler = nil
	return nil
}

// startedEngine returns a running engine whose "record" registration reports
// activation edges on the returned channel.
func startedEngine(t *testing.T, combo string) (*Engine, *fakeTap, chan bool) {
	t.Helper()

	tap := &fakeTap{}
	engine := New(tap)
	edges := make(chan bool, 32)

	err := engine.Register("record", combo,
		func() { edges <- true },
		func() { edges <- false })
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	return engine, tap, edges
}

func expectEdge(t *testing.T, edges chan bool, want bool) {
	t.Helper()
	select {
	case got := <-edges:
		if got != want {
			t.Fatalf("edge = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for edge %v", want)
	}
}

func expectNoEdge(t *testing.T, edges chan bool) {
	t.Helper()
	select {
	case got := <-edges:
		t.Fatalf("unexpected edge %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineActivatesOncePerHold(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectEdge(t, edges, true)

	// OS key-repeat while held produces no further activations.
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "v", Pressed: false})
	expectEdge(t, edges, false)

	tap.handler(KeyEvent{Name: "alt", Pressed: false})
	expectNoEdge(t, edges)
}

func TestEngineThreeKeyCombination(t *testing.T) {
	engine, tap, edges := startedEngine(t, "ctrl+shift+r")
	defer engine.Stop()

	tap.handler(KeyEvent{Name: "ctrl", Pressed: true})
	tap.handler(KeyEvent{Name: "shift", Pressed: true})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "r", Pressed: true})
	expectEdge(t, edges, true)

	// Releasing any member deactivates.
	tap.handler(KeyEvent{Name: "shift", Pressed: false})
	expectEdge(t, edges, false)

	// Completing the set again re-activates.
	tap.handler(KeyEvent{Name: "shift", Pressed: true})
	expectEdge(t, edges, true)

	tap.handler(KeyEvent{Name: "ctrl", Pressed: false})
	expectEdge(t, edges, false)
}

func TestEngineNormalizesHookNames(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	// Raw hooks report sided modifier names.
	tap.handler(KeyEvent{Name: "left alt", Pressed: true})
	tap.handler(KeyEvent{Name: "V", Pressed: true})
	expectEdge(t, edges, true)

	tap.handler(KeyEvent{Name: "left alt", Pressed: false})
	expectEdge(t, edges, false)
}

func TestEngineActivatesWithExtraKeysHeld(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	tap.handler(KeyEvent{Name: "shift", Pressed: true})
	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectEdge(t, edges, true)

	tap.handler(KeyEvent{Name: "shift", Pressed: false})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "v", Pressed: false})
	expectEdge(t, edges, false)
}

func TestEngineRegisterDuplicateID(t *testing.T) {
	engine := New(&fakeTap{})

	if err := engine.Register("record", "alt+v", nil, nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := engine.Register("record", "ctrl+r", nil, nil); err == nil {
		t.Error("Register() with duplicate id succeeded, want error")
	}
}

func TestEngineRegisterInvalidCombo(t *testing.T) {
	engine := New(&fakeTap{})

	if err := engine.Register("record", "++", nil, nil); err == nil {
		t.Error("Register() with empty combination succeeded, want error")
	}
}

func TestEngineUnregisterUnknown(t *testing.T) {
	engine := New(&fakeTap{})

	if err := engine.Unregister("record"); err == nil {
		t.Error("Unregister() of unknown id succeeded, want error")
	}
}

func TestEngineRebind(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	if err := engine.Rebind("record", "ctrl+r"); err != nil {
		t.Fatalf("Rebind() error = %v", err)
	}
	if combo, _ := engine.Combo("record"); combo != "ctrl+r" {
		t.Errorf("Combo() = %q, want %q", combo, "ctrl+r")
	}

	// The old combination no longer fires.
	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "ctrl", Pressed: true})
	tap.handler(KeyEvent{Name: "r", Pressed: true})
	expectEdge(t, edges, true)
}

func TestEngineRebindWhileHeldDeactivates(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectEdge(t, edges, true)

	// Rebinding while the combo is held must close the activation interval
	// so the consumer does not stay stuck in its active state.
	if err := engine.Rebind("record", "ctrl+r"); err != nil {
		t.Fatalf("Rebind() error = %v", err)
	}
	expectEdge(t, edges, false)

	// Releasing the old keys afterwards produces nothing further.
	tap.handler(KeyEvent{Name: "v", Pressed: false})
	tap.handler(KeyEvent{Name: "alt", Pressed: false})
	expectNoEdge(t, edges)
}

func TestEngineRebindInvalidKeepsOld(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")
	defer engine.Stop()

	if err := engine.Rebind("record", ""); err == nil {
		t.Fatal("Rebind() with empty combination succeeded, want error")
	}
	if combo, _ := engine.Combo("record"); combo != "alt+v" {
		t.Errorf("Combo() after failed rebind = %q, want %q", combo, "alt+v")
	}

	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectEdge(t, edges, true)
}

func TestEngineStopClearsPressedState(t *testing.T) {
	engine, tap, edges := startedEngine(t, "alt+v")

	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectEdge(t, edges, true)

	if err := engine.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer engine.Stop()

	// Keys released while stopped must not count as still held.
	tap.handler(KeyEvent{Name: "v", Pressed: true})
	expectNoEdge(t, edges)

	tap.handler(KeyEvent{Name: "alt", Pressed: true})
	expectEdge(t, edges, true)
}

func TestEngineIgnoresEventsWhenStopped(t *testing.T) {
	tap := &fakeTap{}
	engine := New(tap)
	edges := make(chan bool, 4)

	err := engine.Register("record", "alt+v",
		func() { edges <- true },
		func() { edges <- false })
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	engine.HandleEvent(KeyEvent{Name: "alt", Pressed: true})
	engine.HandleEvent(KeyEvent{Name: "v", Pressed: true})
	expectNoEdge(t, edges)
}

func TestEngineStartTwice(t *testing.T) {
	engine, _, _ := startedEngine(t, "alt+v")
	defer engine.Stop()

	if err := engine.Start(); err == nil {
		t.Error("second Start() succeeded, want error")
	}
}
