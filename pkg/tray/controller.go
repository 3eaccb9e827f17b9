// Package tray implements the status icon and menu of the applet. The
// Controller holds the menu semantics; Host renders it with systray.
package tray

import (
	"go.uber.org/zap"
)

// LicenseURL is opened by the License menu entry.
const LicenseURL = "https://github.com/lichess-org/external-engine/blob/main/COPYING.md"

// Descriptor provides the registration link opened by Connect.
type Descriptor interface {
	RegistrationURL() string
}

// Shutdowner receives shutdown requests from the Shutdown entry.
type Shutdowner interface {
	Fire()
}

// Opener launches a URL in the user's default handler.
type Opener interface {
	Open(url string) error
}

// Status of the tray item as reported to the host.
type Status int

const (
	Passive Status = iota
	Active
	NeedsAttention
)

func (s Status) String() string {
	switch s {
	case Passive:
		return "Passive"
	case Active:
		return "Active"
	case NeedsAttention:
		return "NeedsAttention"
	default:
		return "Unknown"
	}
}

// Identity is the static metadata of the tray item.
type Identity struct {
	ID     string
	Title  string
	Status Status
}

var identity = Identity{
	ID:     "remote-uci-applet",
	Title:  "External Lichess Engine",
	Status: Passive,
}

// Controller translates menu activations into side effects.
type Controller struct {
	spec     Descriptor
	shutdown Shutdowner
	opener   Opener
	log      *zap.SugaredLogger
}

// New returns a Controller. A nil opener uses BrowserOpener.
func New(spec Descriptor, shutdown Shutdowner, opener Opener, log *zap.SugaredLogger) *Controller {
	if opener == nil {
		opener = BrowserOpener{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{
		spec:     spec,
		shutdown: shutdown,
		opener:   opener,
		log:      log,
	}
}

func (c *Controller) Identity() Identity {
	return identity
}

func (c *Controller) Icon() Icon {
	return icon
}

// Menu returns the entries in display order.
func (c *Controller) Menu() Menu {
	return Menu{
		{Kind: Item, Label: "Connect", Action: OpenRegistrationURL},
		{Kind: Item, Label: "License", Disposition: Informative, Action: OpenLicenseURL},
		{Kind: Separator},
		{Kind: Item, Label: "Shutdown", Action: RequestShutdown},
	}
}

// Activate runs the side effect of action on the calling goroutine. Failures
// are logged and never returned, so the user can simply try again.
func (c *Controller) Activate(action Action) {
	switch action {
	case OpenRegistrationURL:
		c.open(c.spec.RegistrationURL())
	case OpenLicenseURL:
		c.open(LicenseURL)
	case RequestShutdown:
		c.log.Info("shutdown requested from tray")
		c.shutdown.Fire()
	default:
		c.log.Debugf("ignoring menu action %s", action)
	}
}

func (c *Controller) open(url string) {
	if err := c.opener.Open(url); err != nil {
		c.log.Errorw("failed to open url", "url", url, zap.Error(err))
		return
	}
	c.log.Infow("opened url", "url", url)
}
