// Package session provides live interview session identity and lifecycle management.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a live interview session.
type State int

const (
	// StateIdle - no capture in progress, no request in flight.
	StateIdle State = iota
	// StateCapturing - microphone capture active, accumulating audio.
	StateCapturing
	// StateProcessing - a turn request is in flight to the backend.
	StateProcessing
	// StateEnded - the session is over. Terminal state.
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateCapturing:
		return "CAPTURING"
	case StateProcessing:
		return "PROCESSING"
	case StateEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (ENDED).
func (s State) IsTerminal() bool {
	return s == StateEnded
}

// Errors for invalid state transitions.
var (
	ErrSessionEnded     = errors.New("session has ended")
	ErrAlreadyCapturing = errors.New("capture already in progress")
	ErrTurnInFlight     = errors.New("a turn is already being processed")
	ErrNotCapturing     = errors.New("no capture in progress")
	ErrNotProcessing    = errors.New("no turn in flight")
)

// Lifecycle manages the state machine for a single live session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	IDLE → CAPTURING → PROCESSING → IDLE
//	  │         │            │
//	  └─────────┴────────────┴──→ ENDED (terminal)
//
// Rules:
//   - IDLE: BeginCapture() is the only way forward
//   - CAPTURING: BeginProcessing() when capture is finalized; a second
//     BeginCapture() fails
//   - PROCESSING: at most one turn in flight; BeginCapture() fails with
//     ErrTurnInFlight; FinishTurn() returns to IDLE on success or failure
//   - ENDED: all operations fail with ErrSessionEnded
type Lifecycle struct {
	mu        sync.RWMutex
	sessionId string
	state     State
}

// NewLifecycle creates a new session lifecycle in IDLE state.
func NewLifecycle(sessionId string) *Lifecycle {
	return &Lifecycle{
		sessionId: sessionId,
		state:     StateIdle,
	}
}

// SessionId returns the session ID.
func (l *Lifecycle) SessionId() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessionId
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// CanBeginCapture returns true if a capture can be started.
func (l *Lifecycle) CanBeginCapture() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateIdle
}

// IsEnded returns true if the session is in the terminal state.
func (l *Lifecycle) IsEnded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// BeginCapture validates and transitions IDLE → CAPTURING.
func (l *Lifecycle) BeginCapture() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateIdle:
		l.state = StateCapturing
		return nil
	case StateCapturing:
		return ErrAlreadyCapturing
	case StateProcessing:
		return ErrTurnInFlight
	case StateEnded:
		return ErrSessionEnded
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// BeginProcessing validates and transitions CAPTURING → PROCESSING.
func (l *Lifecycle) BeginProcessing() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateCapturing:
		l.state = StateProcessing
		return nil
	case StateIdle:
		return ErrNotCapturing
	case StateProcessing:
		return ErrTurnInFlight
	case StateEnded:
		return ErrSessionEnded
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// FinishTurn transitions PROCESSING → IDLE. Called on both success and
// failure so the user can always retry the turn manually.
func (l *Lifecycle) FinishTurn() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateProcessing:
		l.state = StateIdle
		return nil
	case StateIdle, StateCapturing:
		return ErrNotProcessing
	case StateEnded:
		return ErrSessionEnded
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// AbortCapture transitions CAPTURING → IDLE without producing a turn.
// Used when capture yields no audio or the device fails.
func (l *Lifecycle) AbortCapture() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateCapturing:
		l.state = StateIdle
		return nil
	case StateIdle, StateProcessing:
		return ErrNotCapturing
	case StateEnded:
		return ErrSessionEnded
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// End transitions the session to ENDED state. Can be called from any
// state. Returns true if the session was ended by this call, false if
// it was already terminal.
func (l *Lifecycle) End() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateEnded
	return true
}
