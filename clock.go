package fix

import (
	"github.com/trickstertwo/xclock"
)

// sendingTimeLayout is the wire format of tag 52: YYYYMMDD-HH:MM:SS.mmm.
const sendingTimeLayout = "20060102-15:04:05.000"

// Clock supplies the current time as a formatted SendingTime string.
// Inject a fixed implementation for deterministic tests.
type Clock interface {
	Now() string
}

// systemClock formats the injected time source as UTC SendingTime values.
type systemClock struct {
	clock xclock.Clock
}

// NewSystemClock returns a Clock backed by the default time source.
func NewSystemClock() Clock {
	return systemClock{clock: xclock.Default()}
}

func (c systemClock) Now() string {
	return c.clock.Now().UTC().Format(sendingTimeLayout)
}
