package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseStatusValid(t *testing.T) {
	for status := range releaseStatuses {
		assert.True(t, status.Valid(), "expected %q to be valid", status)
	}

	assert.False(t, ReleaseStatus("").Valid())
	assert.False(t, ReleaseStatus("shipped").Valid())
	assert.False(t, ReleaseStatus("Pending").Valid(), "status matching is case sensitive")
}

func TestReleaseStatusDeletable(t *testing.T) {
	deletable := []ReleaseStatus{
		StatusPendingPayment,
		StatusPayLater,
		StatusRejected,
		StatusStriked,
		StatusTakenDown,
	}
	for _, status := range deletable {
		assert.True(t, status.Deletable(), "expected %q deletable", status)
	}

	// Everything in or past the paid pipeline requires a takedown first.
	notDeletable := []ReleaseStatus{
		StatusPending,
		StatusPaid,
		StatusProcessing,
		StatusApproved,
		StatusDelivering,
		StatusDelivered,
		StatusOnHold,
		StatusAwaitingFinalQC,
	}
	for _, status := range notDeletable {
		assert.False(t, status.Deletable(), "expected %q not deletable", status)
	}
}

func TestReleaseStatusEditable(t *testing.T) {
	assert.True(t, StatusPendingPayment.Editable())
	assert.True(t, StatusPayLater.Editable())
	assert.True(t, StatusRejected.Editable())

	assert.False(t, StatusApproved.Editable())
	assert.False(t, StatusDelivered.Editable())
	assert.False(t, StatusTakenDown.Editable())
}

func TestReleaseStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusTakenDown.Terminal())

	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusDelivering.Terminal())
}

func TestCreateReleaseRequestValidate(t *testing.T) {
	req := &CreateReleaseRequest{
		Title:      "First EP",
		ArtistName: "Night Courier",
		Tracks:     []Track{{Title: "Opener", Position: 1}},
	}
	require.Empty(t, req.Validate())

	missing := &CreateReleaseRequest{}
	errs := missing.Validate()
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "artist_name")
	assert.Contains(t, errs, "tracks")

	untitledTrack := &CreateReleaseRequest{
		Title:      "First EP",
		ArtistName: "Night Courier",
		Tracks:     []Track{{Title: "Opener"}, {Title: "  "}},
	}
	errs = untitledTrack.Validate()
	assert.Contains(t, errs, "tracks")
}

func TestUpdateReleaseStatusRequestValidate(t *testing.T) {
	ok := &UpdateReleaseStatusRequest{Status: StatusApproved}
	require.Empty(t, ok.Validate())

	unknown := &UpdateReleaseStatusRequest{Status: "lost"}
	assert.Contains(t, unknown.Validate(), "status")

	// Rejection without a reason is refused.
	rejected := &UpdateReleaseStatusRequest{Status: StatusRejected}
	assert.Contains(t, rejected.Validate(), "rejection_reason")

	rejectedWithReason := &UpdateReleaseStatusRequest{
		Status:          StatusRejected,
		RejectionReason: "clipped master",
	}
	assert.Empty(t, rejectedWithReason.Validate())
}
