package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackAllowanceRemaining(t *testing.T) {
	a := &TrackAllowance{Granted: 10, Used: 3}
	assert.Equal(t, 7, a.Remaining())

	exhausted := &TrackAllowance{Granted: 10, Used: 10}
	assert.Equal(t, 0, exhausted.Remaining())

	// Overdrawn never reports negative.
	overdrawn := &TrackAllowance{Granted: 10, Used: 14}
	assert.Equal(t, 0, overdrawn.Remaining())
}
