// Package pomodoro implements the focus timer state machine: work and break
// phases, a one-second countdown, and lifecycle callbacks for the UI.
package pomodoro

import (
	"fmt"
	"sync"
	"time"
)

// Phase identifies the timed interval the engine is currently in.
type Phase string

const (
	PhaseWork      Phase = "work"
	PhaseBreak     Phase = "break"
	PhaseLongBreak Phase = "long_break"
)

var phaseLabels = map[Phase]string{
	PhaseWork:      "WORK",
	PhaseBreak:     "BREAK",
	PhaseLongBreak: "LONG BREAK",
}

// Label returns the display name of the phase.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// State is a snapshot of the engine. Remaining is in seconds; Sessions counts
// completed work phases since the last reset.
type State struct {
	Remaining int
	Sessions  int
	Phase     Phase
	Running   bool
}

// Handlers is the set of optional lifecycle callbacks. Every slot may be nil.
//
// Ordering on phase completion: the countdown stops, OnPhaseComplete fires
// with the phase that just ended while State() still reports the old phase
// and remaining time, then the engine advances and OnTick fires with the new
// remaining time. The engine is left paused; it never auto-starts the next
// phase.
type Handlers struct {
	OnStart         func()
	OnPause         func()
	OnReset         func()
	OnTick          func(remaining int)
	OnPhaseComplete func(completed Phase)
}

// Engine owns the timer state and drives phase transitions. All operations
// are safe for concurrent use; callbacks fire outside the internal lock, on
// whichever goroutine delivers the tick.
type Engine struct {
	mu       sync.Mutex
	settings Settings
	state    State
	handlers Handlers
	ticker   Ticker
	active   bool // tick source currently registered
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithTicker substitutes the recurring tick source, e.g. a deterministic
// fake in tests or a UI-driven ticker.
func WithTicker(t Ticker) Option {
	return func(e *Engine) { e.ticker = t }
}

// New merges patch onto the default settings and returns an engine in the
// work phase with the full work duration, zero sessions, not running.
func New(patch SettingsPatch, handlers Handlers, opts ...Option) *Engine {
	s := DefaultSettings().merge(patch)
	e := &Engine{
		settings: s,
		handlers: handlers,
		state:    State{Phase: PhaseWork, Remaining: s.WorkDuration},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ticker == nil {
		e.ticker = NewWallTicker(time.Second)
	}
	return e
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// State returns a snapshot of the current timer state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins the one-second countdown. Calling Start on a running engine
// is a no-op, so at most one tick source is ever registered.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.state.Running {
		e.mu.Unlock()
		return
	}
	e.state.Running = true
	e.active = true
	e.mu.Unlock()

	if e.handlers.OnStart != nil {
		e.handlers.OnStart()
	}
	e.ticker.Start(e.tick)
}

// Pause cancels the tick source and fires OnPause. Remaining time is kept.
func (e *Engine) Pause() {
	e.stopCountdown()
	if e.handlers.OnPause != nil {
		e.handlers.OnPause()
	}
}

// Reset pauses, then reinitializes to the work phase with the full work
// duration and zero completed sessions. Fires OnPause, OnReset, then OnTick
// with the restored work duration.
func (e *Engine) Reset() {
	e.Pause()

	e.mu.Lock()
	e.state = State{Phase: PhaseWork, Remaining: e.settings.WorkDuration}
	remaining := e.state.Remaining
	e.mu.Unlock()

	if e.handlers.OnReset != nil {
		e.handlers.OnReset()
	}
	e.fireTick(remaining)
}

// UpdateSettings merges patch onto the current settings and performs a full
// reset. Session progress is discarded; a settings change always returns the
// engine to a fresh work phase.
func (e *Engine) UpdateSettings(patch SettingsPatch) {
	e.mu.Lock()
	e.settings = e.settings.merge(patch)
	e.mu.Unlock()
	e.Reset()
}

// SkipPhase completes the current phase immediately, exactly as if the
// countdown had reached zero.
func (e *Engine) SkipPhase() {
	e.completePhase()
}

// tick is invoked once per second by the tick source while running.
func (e *Engine) tick() {
	e.mu.Lock()
	if !e.state.Running {
		// A cancelled tick source must not mutate state.
		e.mu.Unlock()
		return
	}
	e.state.Remaining--
	remaining := e.state.Remaining
	e.mu.Unlock()

	e.fireTick(remaining)
	if remaining <= 0 {
		e.completePhase()
	}
}

// completePhase stops the countdown without firing OnPause, reports the
// finished phase, then advances: a finished work phase leads to a break
// (long break after every SessionsBeforeLongBreak work phases), a finished
// break leads back to work.
func (e *Engine) completePhase() {
	e.stopCountdown()

	e.mu.Lock()
	completed := e.state.Phase
	e.mu.Unlock()

	if e.handlers.OnPhaseComplete != nil {
		e.handlers.OnPhaseComplete(completed)
	}

	e.mu.Lock()
	switch completed {
	case PhaseWork:
		e.state.Sessions++
		if e.state.Sessions%e.settings.SessionsBeforeLongBreak == 0 {
			e.state.Phase = PhaseLongBreak
			e.state.Remaining = e.settings.LongBreakDuration
		} else {
			e.state.Phase = PhaseBreak
			e.state.Remaining = e.settings.BreakDuration
		}
	default:
		e.state.Phase = PhaseWork
		e.state.Remaining = e.settings.WorkDuration
	}
	remaining := e.state.Remaining
	e.mu.Unlock()

	e.fireTick(remaining)
}

// stopCountdown cancels any registered tick source and marks the engine not
// running. It never fires OnPause; callers decide which events follow.
func (e *Engine) stopCountdown() {
	e.mu.Lock()
	if e.active {
		e.ticker.Stop()
		e.active = false
	}
	e.state.Running = false
	e.mu.Unlock()
}

func (e *Engine) fireTick(remaining int) {
	if e.handlers.OnTick != nil {
		e.handlers.OnTick(remaining)
	}
}

// FormatTime renders a second count as MM:SS with both fields zero-padded.
// Minutes are not clamped to 59; negative input renders as 00:00.
func FormatTime(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
