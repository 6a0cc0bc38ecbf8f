package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPenaltyDue(t *testing.T) {
	assert.False(t, PenaltyDue(1, false))
	assert.False(t, PenaltyDue(2, false))
	assert.True(t, PenaltyDue(3, false))
	assert.True(t, PenaltyDue(4, false), "late strikes past the threshold still carry the penalty")

	// Mock fines never escalate, whatever the strike number.
	assert.False(t, PenaltyDue(0, true))
	assert.False(t, PenaltyDue(3, true))
	assert.False(t, PenaltyDue(10, true))
}

func TestSuspensionPenaltyConstants(t *testing.T) {
	assert.Equal(t, 3, SuspensionStrikeCount)
	assert.Equal(t, 55.0, SuspensionPenaltyAmount)
	assert.Equal(t, "Account suspension penalty - 3 strikes reached", SuspensionPenaltyReason)
}

func TestIssueFineRequestValidate(t *testing.T) {
	ok := &IssueFineRequest{
		UserID:   "user-1",
		Amount:   25,
		FineType: "copyright",
		Reason:   "Unlicensed sample",
	}
	assert.Empty(t, ok.Validate())

	bad := &IssueFineRequest{Amount: -5}
	errs := bad.Validate()
	assert.Contains(t, errs, "user_id")
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "fine_type")
	assert.Contains(t, errs, "reason")
}
