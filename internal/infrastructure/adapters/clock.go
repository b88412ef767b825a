package adapters

import (
	"time"

	"lm-gateway/internal/domain/interfaces"
)

// RealClock is the Clock implementation backed by system time.
type RealClock struct{}

// NewRealClock creates a new RealClock.
func NewRealClock() interfaces.Clock {
	return &RealClock{}
}

// Now returns the current time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}
