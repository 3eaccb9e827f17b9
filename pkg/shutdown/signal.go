package shutdown

import "sync"

// Signal is a one-shot shutdown request. Any number of goroutines may fire it;
// once fired it stays fired for the life of the process.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// New returns a Signal that has not fired.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire requests shutdown. It never blocks and only the first call has an effect.
func (s *Signal) Fire() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Done returns a channel that is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the signal fires.
func (s *Signal) Wait() {
	<-s.done
}

// Fired reports whether Fire has been called.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
