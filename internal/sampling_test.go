package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSampleBoundaryRates(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, ShouldSample(1))
		assert.True(t, ShouldSample(1.5))
		assert.False(t, ShouldSample(0))
		assert.False(t, ShouldSample(-0.5))
	}
}

func TestShouldSampleFractionalRateKeepsRoughlyThatFraction(t *testing.T) {
	kept := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if ShouldSample(0.5) {
			kept++
		}
	}
	assert.InDelta(t, trials/2, kept, trials/10)
}
