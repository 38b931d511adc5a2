// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     hotkey
// Description: Edge-triggered global hotkey engine
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package hotkey

import (
	"fmt"
	"sync"

	"github.com/msto63/wavetype/internal/logging"
)

// edgeQueueSize bounds the per-combination signal queue. The hook thread
// never blocks on a slow callback; beyond this depth edges are dropped.
const edgeQueueSize = 16

// registration is one combination with its callbacks and activation state.
// Owned by the engine; mutated only on the event path under the engine lock.
type registration struct {
	id           string
	combo        string
	keys         KeySet
	onActivate   func()
	onDeactivate func()
	active       bool

	// edges carries activation transitions to the dispatcher goroutine,
	// serializing callbacks per combination in order.
	edges chan bool
}

// dispatch runs the registration's callbacks off the hook thread, one edge
// at a time, until the edges channel is closed.
func (r *registration) dispatch() {
	for active := range r.edges {
		if active {
			if r.onActivate != nil {
				r.onActivate()
			}
		} else {
			if r.onDeactivate != nil {
				r.onDeactivate()
			}
		}
	}
}

// Engine tracks the set of currently pressed keys from a global event tap and
// fires edge-triggered activate/deactivate callbacks for registered
// combinations. All state is guarded by one lock; callbacks run on
// per-combination dispatcher goroutines, never on the hook thread.
type Engine struct {
	mu      sync.Mutex
	tap     EventTap
	logger  *logging.Logger
	pressed map[string]struct{}
	regs    map[string]*registration
	started bool
}

// New creates an engine reading from the given tap.
func New(tap EventTap) *Engine {
	return &Engine{
		tap:     tap,
		logger:  logging.New("hotkey"),
		pressed: make(map[string]struct{}),
		regs:    make(map[string]*registration),
	}
}

// Register adds a combination under the given id. Either callback may be nil.
// Fails when the combination parses to an empty key set or the id is taken.
func (e *Engine) Register(id, combo string, onActivate, onDeactivate func()) error {
	keys, err := ParseCombo(combo)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.regs[id]; exists {
		return fmt.Errorf("hotkey %q already registered", id)
	}

	reg := &registration{
		id:           id,
		combo:        combo,
		keys:         keys,
		onActivate:   onActivate,
		onDeactivate: onDeactivate,
		edges:        make(chan bool, edgeQueueSize),
	}
	e.regs[id] = reg
	go reg.dispatch()

	e.logger.Info("Registered hotkey", "id", id, "keys", keys.String())
	return nil
}

// Unregister removes a combination. Fails when the id is unknown.
func (e *Engine) Unregister(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unregisterLocked(id)
}

func (e *Engine) unregisterLocked(id string) error {
	reg, ok := e.regs[id]
	if !ok {
		return fmt.Errorf("hotkey %q is not registered", id)
	}
	delete(e.regs, id)
	close(reg.edges)
	e.logger.Info("Unregistered hotkey", "id", id)
	return nil
}

// Rebind replaces the combination registered under id, keeping its callbacks.
// When the new combination fails to parse the previous one stays in effect.
func (e *Engine) Rebind(id, newCombo string) error {
	keys, err := ParseCombo(newCombo)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	reg, ok := e.regs[id]
	if !ok {
		return fmt.Errorf("hotkey %q is not registered", id)
	}
	if reg.combo == newCombo {
		return nil
	}

	old := reg.combo
	reg.combo = newCombo
	reg.keys = keys

	// A combo held during rebind must not leave its consumer stuck in the
	// activated state; close the interval before the new binding takes over.
	if reg.active {
		reg.active = false
		select {
		case reg.edges <- false:
		default:
			e.logger.Warn("Dropping hotkey edge, dispatch queue full", "id", reg.id, "active", false)
		}
	}

	e.logger.Info("Rebound hotkey", "id", id, "from", old, "to", newCombo)
	return nil
}

// Combo returns the combination string registered under id.
func (e *Engine) Combo(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	reg, ok := e.regs[id]
	if !ok {
		return "", false
	}
	return reg.combo, true
}

// Start installs the global event tap. Fails if already started.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("hotkey engine already started")
	}
	e.started = true
	e.mu.Unlock()

	// Install outside the lock: HandleEvent may fire synchronously on some
	// taps and takes the lock itself.
	if err := e.tap.Install(e.HandleEvent); err != nil {
		e.mu.Lock()
		e.started = false
		e.mu.Unlock()
		return fmt.Errorf("failed to install key event tap: %w", err)
	}

	e.logger.Info("Hotkey engine started")
	return nil
}

// Stop removes the event tap and clears the pressed set and all activation
// state. Registrations survive, so Start can resume them.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return fmt.Errorf("hotkey engine not started")
	}
	e.started = false
	e.pressed = make(map[string]struct{})
	for _, reg := range e.regs {
		reg.active = false
	}
	e.mu.Unlock()

	if err := e.tap.Uninstall(); err != nil {
		return fmt.Errorf("failed to remove key event tap: %w", err)
	}

	e.logger.Info("Hotkey engine stopped")
	return nil
}

// HandleEvent processes one raw key event: updates the pressed set, then
// re-evaluates every registration for an activation edge. Repeat events for a
// key already in the pressed set produce no transitions.
func (e *Engine) HandleEvent(ev KeyEvent) {
	name := NormalizeKey(ev.Name)
	if name == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	if ev.Pressed {
		e.pressed[name] = struct{}{}
	} else {
		delete(e.pressed, name)
	}

	for _, reg := range e.regs {
		held := reg.keys.SubsetOf(e.pressed)
		if held == reg.active {
			continue
		}
		reg.active = held

		select {
		case reg.edges <- held:
		default:
			// Dispatcher is wedged; drop rather than stall the hook.
			e.logger.Warn("Dropping hotkey edge, dispatch queue full", "id", reg.id, "active", held)
		}
	}
}
