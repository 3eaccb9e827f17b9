package tray

// Action identifies what a menu entry does when activated.
type Action int

const (
	NoAction Action = iota
	OpenRegistrationURL
	OpenLicenseURL
	RequestShutdown
)

func (a Action) String() string {
	switch a {
	case NoAction:
		return "none"
	case OpenRegistrationURL:
		return "open-registration-url"
	case OpenLicenseURL:
		return "open-license-url"
	case RequestShutdown:
		return "request-shutdown"
	default:
		return "unknown"
	}
}

// EntryKind distinguishes actionable items from separators.
type EntryKind int

const (
	Item EntryKind = iota
	Separator
)

// Disposition is a styling hint for the host.
type Disposition int

const (
	Normal Disposition = iota
	Informative
)

type MenuEntry struct {
	Kind        EntryKind
	Label       string
	Disposition Disposition
	Action      Action
}

// Menu is an ordered list of entries.
type Menu []MenuEntry
