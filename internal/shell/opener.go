package shell

import "github.com/pkg/browser"

// Opener opens a URL for the user.
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens URLs in the system web browser.
type BrowserOpener struct{}

// Open implements Opener.
func (BrowserOpener) Open(url string) error {
	return browser.OpenURL(url)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error { return f(url) }
