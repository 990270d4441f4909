package internal

import (
	"math/rand"
	"sync"
)

var samplingMutex sync.Mutex //nolint:gochecknoglobals

// ShouldSample returns true if an event should be kept, given a sampling rate in the
// range [0, 1]. Rates at or above 1 always keep; rates at or below 0 always drop.
func ShouldSample(rate float64) bool {
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	samplingMutex.Lock()
	defer samplingMutex.Unlock()
	return rand.Float64() < rate //nolint:gosec // doesn't need cryptographic randomness
}
