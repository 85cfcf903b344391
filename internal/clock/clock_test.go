package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFallsBackToReal(t *testing.T) {
	assert.Equal(t, Real, New(nil))
}

func TestNewReturnsGivenClock(t *testing.T) {
	fake := Fake()
	assert.Equal(t, Clock(fake), New(fake))
}

func TestFakeAdvances(t *testing.T) {
	fake := Fake()
	start := fake.Now()
	fake.Advance(time.Second)
	assert.Equal(t, time.Second, fake.Now().Sub(start))
}
