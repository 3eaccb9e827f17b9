// Package daemon wires the server, the shutdown signal, the tray and the
// supervisor together for the lifetime of the process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/manifold/remote-uci-applet/pkg/remote"
	"github.com/manifold/remote-uci-applet/pkg/shutdown"
	"github.com/manifold/remote-uci-applet/pkg/supervisor"
	"github.com/manifold/remote-uci-applet/pkg/tray"
	"go.uber.org/zap"
)

// Descriptor is the registration spec returned alongside the server.
type Descriptor interface {
	RegistrationURL() string
}

// MakeServerFunc constructs and binds the server. A returned error aborts
// startup before anything else is created.
type MakeServerFunc func(opts remote.Options, log *zap.SugaredLogger) (Descriptor, supervisor.Server, error)

// TrayStarter hands a controller to the UI loop without waiting for it.
type TrayStarter interface {
	Start(c *tray.Controller)
}

// RemoteServer is the MakeServerFunc backed by package remote.
func RemoteServer(opts remote.Options, log *zap.SugaredLogger) (Descriptor, supervisor.Server, error) {
	spec, srv, err := remote.MakeServer(opts, log)
	if err != nil {
		return nil, nil, err
	}
	return spec, srv, nil
}

// Daemon is the top-level lifecycle of the applet.
type Daemon struct {
	Options    remote.Options
	MakeServer MakeServerFunc
	Tray       TrayStarter
	Opener     tray.Opener
	Logger     *zap.SugaredLogger

	// Signals that request shutdown. Defaults to SIGINT, SIGTERM and SIGHUP.
	Signals []os.Signal

	state int32
}

// Run starts the server and the tray and blocks until the server has stopped.
// It returns nil after a requested shutdown and the fatal error otherwise.
func (d *Daemon) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&d.state, 0, 1) {
		return errors.New("already running")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	makeServer := d.MakeServer
	if makeServer == nil {
		makeServer = RemoteServer
	}

	spec, srv, err := makeServer(d.Options, log)
	if err != nil {
		return fmt.Errorf("make server: %w", err)
	}
	log.Infof("registration url: %s", spec.RegistrationURL())

	sig := shutdown.New()
	if d.Tray != nil {
		d.Tray.Start(tray.New(spec, sig, d.Opener, log))
	}

	stop := TerminateOnSignal(sig, log, d.signals()...)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go TerminateOnContextDone(ctx, sig)

	return supervisor.New(log).Run(srv, sig)
}

func (d *Daemon) signals() []os.Signal {
	if len(d.Signals) > 0 {
		return d.Signals
	}
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
}

// TerminateOnSignal fires sig when the process receives one of sigs. The
// returned func stops listening.
func TerminateOnSignal(sig *shutdown.Signal, log *zap.SugaredLogger, sigs ...os.Signal) func() {
	termSigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(termSigs, sigs...)
	go func() {
		select {
		case s := <-termSigs:
			log.Infof("received %s, shutting down", s)
			sig.Fire()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(termSigs)
		close(done)
	}
}

// TerminateOnContextDone fires sig once ctx is canceled.
func TerminateOnContextDone(ctx context.Context, sig *shutdown.Signal) {
	select {
	case <-ctx.Done():
		sig.Fire()
	case <-sig.Done():
	}
}
