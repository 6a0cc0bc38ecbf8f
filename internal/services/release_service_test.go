package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tunedrop/backend/internal/models"
)

func TestTakedownRequestGuard(t *testing.T) {
	assert.NoError(t, takedownRequestGuard(&models.Release{Status: models.StatusApproved}))

	assert.Equal(t, ErrTakedownNotAllowed,
		takedownRequestGuard(&models.Release{Status: models.StatusPending}))
	assert.Equal(t, ErrTakedownNotAllowed,
		takedownRequestGuard(&models.Release{Status: models.StatusDelivered}))

	assert.Equal(t, ErrTakedownRequested,
		takedownRequestGuard(&models.Release{Status: models.StatusApproved, TakedownRequested: true}))
}
