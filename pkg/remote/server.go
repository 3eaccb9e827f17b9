package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/urfave/negroni"
	"go.uber.org/zap"
)

// Server owns the bound listener and the HTTP server on top of it.
type Server struct {
	Engine string

	spec     *Spec
	listener net.Listener
	http     *http.Server
	log      *zap.SugaredLogger
	state    int32
}

// MakeServer validates opts, binds the listener and returns the registration
// spec alongside a server that is ready to serve. Bind errors are returned here.
func MakeServer(opts Options, log *zap.SugaredLogger) (*Spec, *Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	engine, err := exec.LookPath(opts.Engine)
	if err != nil {
		return nil, nil, fmt.Errorf("engine %q: %w", opts.Engine, err)
	}

	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}

	l, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", opts.Bind)
	if err != nil {
		return nil, nil, fmt.Errorf("bind %s: %w", opts.Bind, err)
	}

	addr := opts.PublishAddr
	if addr == "" {
		addr = l.Addr().String()
	}
	spec := newSpec(addr, opts)

	s := &Server{
		Engine:   engine,
		spec:     spec,
		listener: l,
		log:      log,
	}

	n := negroni.New()
	rec := negroni.NewRecovery()
	rec.PrintStack = false
	rec.Logger = zap.NewStdLog(log.Desugar())
	n.Use(rec)
	n.Use(negroni.HandlerFunc(requestID))
	n.Use(negroni.HandlerFunc(s.logRequest))
	n.UseHandler(s.routes())

	s.http = &http.Server{
		Handler:  n,
		ErrorLog: zap.NewStdLog(log.Desugar()),
	}
	return spec, s, nil
}

// Addr is the address the listener is bound to.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// ServeUntil accepts connections until stop is closed, then stops accepting and
// waits for in-flight requests to finish. It returns the error that ended
// serving early, or nil after an orderly drain. It may only be called once.
func (s *Server) ServeUntil(stop <-chan struct{}) error {
	if !atomic.CompareAndSwapInt32(&s.state, 0, 1) {
		return errors.New("server already started")
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Infof("[server] listening on %s", s.listener.Addr())
		errs <- s.http.Serve(s.listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.listener.Addr(), err)
	case <-stop:
	}

	s.log.Info("[server] draining connections")
	if err := s.http.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", s.listener.Addr(), err)
	}
	s.log.Info("[server] stopped")
	return nil
}

// Close releases the listener of a server that was never served.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.state, 0, 2) {
		return nil
	}
	return s.listener.Close()
}
