// Package clock provides the engine-wall-clock abstraction behind every
// AuditEntry and observer timestamp, following zoobzio/pipz's pattern of
// threading a swappable clockz.Clock through connectors (see pipz's
// Timeout.WithClock) rather than calling time.Now directly.
package clock

import (
	"github.com/zoobzio/clockz"
)

// Clock is re-exported so callers never need to import clockz directly.
type Clock = clockz.Clock

// Real is the production clock, backed by the actual system time.
var Real Clock = clockz.RealClock

// New returns clock if non-nil, otherwise Real. Every component that takes
// an optional *clock.Clock-shaped dependency should funnel it through this
// so "no clock configured" and "real clock configured" behave identically.
func New(clock Clock) Clock {
	if clock == nil {
		return Real
	}
	return clock
}

// Fake returns a deterministic clock for tests, advanced explicitly via
// Advance. It is a thin rename of clockz's fake clock constructor so
// packages under internal/ never import clockz's test package directly.
func Fake() clockz.FakeClock {
	return clockz.NewFakeClock()
}
