package navigate

import (
	"fmt"

	"github.com/pkg/browser"
)

// BrowserOpener opens URLs in the system browser, a new browsing context
// outside the application.
type BrowserOpener struct {
	// BaseURL resolves relative URLs.
	BaseURL string
	// open is replaced in tests.
	open func(url string) error
}

// Open resolves rawURL and hands it to the system browser.
func (o BrowserOpener) Open(rawURL string) error {
	target, err := ResolveURL(o.BaseURL, rawURL)
	if err != nil {
		return err
	}
	open := o.open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(target); err != nil {
		return fmt.Errorf("navigate: open %s: %w", target, err)
	}
	return nil
}
