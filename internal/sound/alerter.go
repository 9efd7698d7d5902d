package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrPlayback is the root of alert failures. Callers always swallow it:
// a kitchen that cannot beep still has to process orders.
var ErrPlayback = errors.New("alert playback failed")

// Alerter plays the new-order alert.
type Alerter interface {
	Alert() error
}

// Bell writes the terminal bell character. The default alerter for a
// console session.
type Bell struct {
	w io.Writer
}

func NewBell(w io.Writer) *Bell {
	if w == nil {
		w = os.Stdout
	}
	return &Bell{w: w}
}

func (b *Bell) Alert() error {
	if _, err := b.w.Write([]byte("\a")); err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}
	return nil
}

// Silent is an alerter that does nothing, for headless deployments.
type Silent struct{}

func (Silent) Alert() error { return nil }
