package tray

import "github.com/skratchdot/open-golang/open"

// BrowserOpener opens URLs with the platform handler (xdg-open, open, start).
// It starts the handler process and does not wait for it to exit.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	return open.Start(url)
}
