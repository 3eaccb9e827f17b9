// Package supervisor runs the server until a shutdown is requested and
// reports how it ended.
package supervisor

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyRun is returned by every Run after the first.
	ErrAlreadyRun = errors.New("supervisor already run")

	// ErrServerExited means the server stopped on its own without an error
	// and without being asked to.
	ErrServerExited = errors.New("server exited unexpectedly")
)

// Server accepts connections until stop is closed.
type Server interface {
	ServeUntil(stop <-chan struct{}) error
}

// Signal is the shutdown request the supervisor waits on.
type Signal interface {
	Done() <-chan struct{}
}

type State int

const (
	Running State = iota
	ShutdownRequested
	ServerFailed
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case ShutdownRequested:
		return "ShutdownRequested"
	case ServerFailed:
		return "ServerFailed"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type Supervisor struct {
	log *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	started bool
}

func New(log *zap.SugaredLogger) *Supervisor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Supervisor{log: log}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run serves srv until sig fires or the server stops by itself, and returns the
// single terminal outcome. When the server has already returned by the time
// the signal is seen, the server's outcome wins. A server that fails while
// draining after a requested stop still returns its error.
func (s *Supervisor) Run(srv Server, sig Signal) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyRun
	}
	s.started = true
	s.mu.Unlock()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ServeUntil(sig.Done())
	}()

	var (
		err      error
		returned bool
	)
	select {
	case err = <-errs:
		returned = true
	case <-sig.Done():
		select {
		case err = <-errs:
			returned = true
		default:
		}
	}

	if returned && (err != nil || !fired(sig)) {
		if err == nil {
			err = ErrServerExited
		}
		s.transition(ServerFailed)
		s.log.Errorw("[supervisor] server failed", zap.Error(err))
		s.transition(Terminated)
		return fmt.Errorf("server: %w", err)
	}

	s.transition(ShutdownRequested)
	if !returned {
		s.log.Info("[supervisor] shutdown requested, waiting for server to drain")
		err = <-errs
	}
	s.transition(Terminated)
	if err != nil {
		s.log.Errorw("[supervisor] server failed to drain", zap.Error(err))
		return fmt.Errorf("server: %w", err)
	}
	s.log.Info("[supervisor] server stopped")
	return nil
}

func (s *Supervisor) transition(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == to {
		return
	}
	s.log.Debugf("[supervisor] %s -> %s", s.state, to)
	s.state = to
}

func fired(sig Signal) bool {
	select {
	case <-sig.Done():
		return true
	default:
		return false
	}
}
