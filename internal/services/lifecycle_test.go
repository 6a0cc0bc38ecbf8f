package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedrop/backend/internal/models"
)

type fakeReleaseFlow struct {
	release    *models.Release
	err        error
	gotApprove bool
	gotNote    string
	gotStatus  models.ReleaseStatus
}

func (f *fakeReleaseFlow) UpdateStatus(ctx context.Context, id string, req *models.UpdateReleaseStatusRequest) (*models.Release, error) {
	f.gotStatus = req.Status
	return f.release, f.err
}

func (f *fakeReleaseFlow) ReviewTakedown(ctx context.Context, id string, approve bool, note string) (*models.Release, error) {
	f.gotApprove = approve
	f.gotNote = note
	return f.release, f.err
}

type notificationRecorder struct {
	rows []*models.Notification
	err  error
}

func (n *notificationRecorder) Insert(ctx context.Context, userID, title, body string) (*models.Notification, error) {
	if n.err != nil {
		return nil, n.err
	}
	row := &models.Notification{UserID: userID, Title: title, Body: body}
	n.rows = append(n.rows, row)
	return row, nil
}

type fakeOwnerProfiles struct {
	profile *models.Profile
	err     error
}

func (f *fakeOwnerProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return f.profile, f.err
}

func TestReviewTakedownApprovedNotifiesOwner(t *testing.T) {
	flow := &fakeReleaseFlow{release: &models.Release{
		ID:     "rel-1",
		UserID: "user-1",
		Title:  "Night Drive",
		Status: models.StatusTakenDown,
	}}
	notes := &notificationRecorder{}
	lc := &ReleaseLifecycle{Releases: flow, Notifications: notes}

	release, err := lc.ReviewTakedown(context.Background(), "rel-1", true, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTakenDown, release.Status)
	assert.True(t, flow.gotApprove)

	require.Len(t, notes.rows, 1)
	assert.Equal(t, "user-1", notes.rows[0].UserID)
	assert.Equal(t, "Release taken down", notes.rows[0].Title)
	assert.Contains(t, notes.rows[0].Body, "Night Drive")
}

func TestReviewTakedownDeniedIncludesNote(t *testing.T) {
	flow := &fakeReleaseFlow{release: &models.Release{
		ID:     "rel-1",
		UserID: "user-1",
		Title:  "Night Drive",
		Status: models.StatusApproved,
	}}
	notes := &notificationRecorder{}
	lc := &ReleaseLifecycle{Releases: flow, Notifications: notes}

	_, err := lc.ReviewTakedown(context.Background(), "rel-1", false, "rights dispute unresolved")
	require.NoError(t, err)
	assert.False(t, flow.gotApprove)
	assert.Equal(t, "rights dispute unresolved", flow.gotNote)

	require.Len(t, notes.rows, 1)
	assert.Equal(t, "Takedown request denied", notes.rows[0].Title)
	assert.Contains(t, notes.rows[0].Body, "rights dispute unresolved")
}

func TestReviewTakedownConflictSkipsNotification(t *testing.T) {
	flow := &fakeReleaseFlow{err: ErrNoTakedownRequest}
	notes := &notificationRecorder{}
	lc := &ReleaseLifecycle{Releases: flow, Notifications: notes}

	_, err := lc.ReviewTakedown(context.Background(), "rel-1", true, "")
	assert.Equal(t, ErrNoTakedownRequest, err)
	assert.Empty(t, notes.rows)
}

func TestUpdateStatusRejectionReasonInNotification(t *testing.T) {
	flow := &fakeReleaseFlow{release: &models.Release{
		ID:              "rel-1",
		UserID:          "user-1",
		Title:           "Night Drive",
		Status:          models.StatusRejected,
		RejectionReason: "clipping in the master",
	}}
	notes := &notificationRecorder{}
	lc := &ReleaseLifecycle{Releases: flow, Notifications: notes}

	_, err := lc.UpdateStatus(context.Background(), "rel-1", &models.UpdateReleaseStatusRequest{
		Status:          models.StatusRejected,
		RejectionReason: "clipping in the master",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, flow.gotStatus)

	require.Len(t, notes.rows, 1)
	assert.Contains(t, notes.rows[0].Body, "clipping in the master")
}

func TestUpdateStatusNotificationFailureIsNonFatal(t *testing.T) {
	flow := &fakeReleaseFlow{release: &models.Release{ID: "rel-1", UserID: "user-1", Title: "EP", Status: models.StatusApproved}}
	notes := &notificationRecorder{err: errors.New("insert failed")}
	lc := &ReleaseLifecycle{Releases: flow, Notifications: notes}

	release, err := lc.UpdateStatus(context.Background(), "rel-1", &models.UpdateReleaseStatusRequest{Status: models.StatusApproved})
	require.NoError(t, err, "the status write already happened; side effects never fail it")
	assert.Equal(t, "rel-1", release.ID)
}

func TestUpdateStatusEmailsOwner(t *testing.T) {
	var mailCalls int
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		mailCalls++
		w.WriteHeader(http.StatusAccepted)
	})

	flow := &fakeReleaseFlow{release: &models.Release{ID: "rel-1", UserID: "user-1", Title: "EP", Status: models.StatusApproved}}
	lc := &ReleaseLifecycle{
		Releases:      flow,
		Profiles:      &fakeOwnerProfiles{profile: &models.Profile{UserID: "user-1", Email: "artist@example.com"}},
		Notifications: &notificationRecorder{},
		Mailer:        mailer,
	}

	_, err := lc.UpdateStatus(context.Background(), "rel-1", &models.UpdateReleaseStatusRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 1, mailCalls)
}

func TestUpdateStatusSkipsEmailWithoutAddress(t *testing.T) {
	var mailCalls int
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		mailCalls++
		w.WriteHeader(http.StatusAccepted)
	})

	flow := &fakeReleaseFlow{release: &models.Release{ID: "rel-1", UserID: "user-1", Title: "EP", Status: models.StatusApproved}}
	lc := &ReleaseLifecycle{
		Releases:      flow,
		Profiles:      &fakeOwnerProfiles{profile: &models.Profile{UserID: "user-1"}},
		Notifications: &notificationRecorder{},
		Mailer:        mailer,
	}

	_, err := lc.UpdateStatus(context.Background(), "rel-1", &models.UpdateReleaseStatusRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 0, mailCalls)
}
