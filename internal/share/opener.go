package share

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/browser"
)

// SystemOpener opens URLs with the operating system's default handler.
// The handler's output is discarded so it cannot draw over the terminal UI.
type SystemOpener struct{}

//nolint:gochecknoglobals // swapped in tests
var openURL = browser.OpenURL

var quietBrowser sync.Once

// Open hands rawURL to the OS handler. It returns ctx's error if ctx ends
// before the handler does; the handler itself is not killed.
func (SystemOpener) Open(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	quietBrowser.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})

	open := openURL
	done := make(chan error, 1)
	go func() { done <- open(rawURL) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", rawURL, err)
		}

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
