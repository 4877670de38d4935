package engine

import "errors"

var (
	ErrAlreadyStarted = errors.New("engine: already started")
	ErrNotRunning     = errors.New("engine: not running")
)

// State is the engine lifecycle position. Exited is reachable from every
// other state.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateExited
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Hooks is the game side of the lifecycle.
type Hooks interface {
	// Bootstrap runs before any config is loaded. It may install a config
	// with SetConfig. Returning an error skips loading the default config
	// file; startup still continues.
	Bootstrap(e *Engine) error
	// Init runs once the config is applied. An error aborts startup.
	Init(e *Engine) error
	// Run is called once per tick after the clock callbacks. An error asks
	// the engine to shut down.
	Run() error
	// Exit runs exactly once when the engine shuts down.
	Exit()
}
