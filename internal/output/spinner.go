package output

import (
	"fmt"
	"time"
)

// spinnerInterval is how often the spinner emits a dot while the wrapped
// call is blocked.
const spinnerInterval = time.Second

// WithSpinner runs fn on the calling goroutine while animating a styled
// ". " at a fixed interval from a background goroutine. The cursor is
// hidden for the duration and restored before WithSpinner returns, even
// when fn returns an error. The closing newline completes any line
// started with [Announce].
//
// The only state shared with the animation goroutine is the stop channel;
// the wrapped call must not write to the printer's writer concurrently
// with the spinner beyond its own final result line.
func (p *Printer) WithSpinner(level Level, fn func() error) error {
	p.HideCursor()
	defer func() {
		p.ShowCursor()
		p.Newline()
	}()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if p.tty {
					fmt.Fprint(p.w, p.styles[level].Render(". "))
				}
			}
		}
	}()

	err := fn()
	close(stop)
	<-done
	return err
}
