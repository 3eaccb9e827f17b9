package tray

import (
	"sync"
	"sync/atomic"

	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

// Host renders a Controller with systray. systray must own the main goroutine
// on some platforms, so Loop is called from main while Start may be called
// from anywhere.
type Host struct {
	log      *zap.SugaredLogger
	ready    chan *Controller
	quit     chan struct{}
	quitOnce sync.Once
	running  int32
}

func NewHost(log *zap.SugaredLogger) *Host {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Host{
		log:   log,
		ready: make(chan *Controller, 1),
		quit:  make(chan struct{}),
	}
}

// Start hands c to the UI loop. It does not block.
func (h *Host) Start(c *Controller) {
	select {
	case h.ready <- c:
	default:
		h.log.Warn("[tray] already started")
	}
}

// Loop runs the tray until Quit is called. If Quit comes before Start, Loop
// returns without showing anything.
func (h *Host) Loop() {
	select {
	case c := <-h.ready:
		select {
		case <-h.quit:
			return
		default:
		}
		atomic.StoreInt32(&h.running, 1)
		systray.Run(func() { h.onReady(c) }, func() { h.log.Debug("[tray] exited") })
	case <-h.quit:
	}
}

// Quit ends Loop. It is safe to call more than once.
func (h *Host) Quit() {
	h.quitOnce.Do(func() {
		close(h.quit)
		if atomic.LoadInt32(&h.running) == 1 {
			systray.Quit()
		}
	})
}

func (h *Host) onReady(c *Controller) {
	id := c.Identity()
	if b, err := c.Icon().PNG(); err != nil {
		h.log.Errorw("[tray] encoding icon", zap.Error(err))
	} else {
		systray.SetIcon(b)
	}
	systray.SetTitle(id.Title)
	systray.SetTooltip(id.Title)

	clicks := make(chan Action)
	for _, entry := range c.Menu() {
		if entry.Kind == Separator {
			systray.AddSeparator()
			continue
		}
		// systray has no styling for informative entries; they render as plain items
		item := systray.AddMenuItem(entry.Label, entry.Label)
		go func(item *systray.MenuItem, action Action) {
			for range item.ClickedCh {
				clicks <- action
			}
		}(item, entry.Action)
	}
	h.log.Debugw("[tray] ready", "id", id.ID, "status", id.Status)

	go func() {
		for action := range clicks {
			c.Activate(action)
		}
	}()

	// Quit may have raced ahead of systray.Run
	select {
	case <-h.quit:
		systray.Quit()
	default:
	}
}
