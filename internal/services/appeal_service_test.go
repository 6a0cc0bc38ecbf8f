package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedrop/backend/internal/models"
)

type fakeBanProfiles struct {
	profile   *models.Profile
	setBanned []bool
}

func (f *fakeBanProfiles) SetBanned(ctx context.Context, userID string, banned bool) (*models.Profile, error) {
	f.setBanned = append(f.setBanned, banned)
	return &models.Profile{UserID: userID, IsBanned: banned}, nil
}

func (f *fakeBanProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.profile == nil {
		return nil, ErrUserNotFound
	}
	return f.profile, nil
}

func TestAppealApprovalLiftsBan(t *testing.T) {
	profiles := &fakeBanProfiles{}
	svc := &MongoAppealService{profiles: profiles}
	appeal := &models.AccountAppeal{ID: "appeal-1", UserID: "user-1"}

	err := svc.finishDecision(context.Background(), appeal, true, "welcome back")
	require.NoError(t, err)

	assert.Equal(t, []bool{false}, profiles.setBanned)
}

func TestAppealDenialKeepsBan(t *testing.T) {
	profiles := &fakeBanProfiles{}
	svc := &MongoAppealService{profiles: profiles}
	appeal := &models.AccountAppeal{ID: "appeal-1", UserID: "user-1"}

	err := svc.finishDecision(context.Background(), appeal, false, "insufficient grounds")
	require.NoError(t, err)

	assert.Empty(t, profiles.setBanned)
}

func TestAppealDecisionEmailIsBestEffort(t *testing.T) {
	var mailCalls int
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		mailCalls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	profiles := &fakeBanProfiles{profile: &models.Profile{UserID: "user-1", Email: "artist@example.com"}}
	svc := &MongoAppealService{profiles: profiles, mailer: mailer}
	appeal := &models.AccountAppeal{ID: "appeal-1", UserID: "user-1"}

	err := svc.finishDecision(context.Background(), appeal, true, "")
	require.NoError(t, err, "a failed decision email must not fail the decision")

	assert.Equal(t, 1, mailCalls)
	assert.Equal(t, []bool{false}, profiles.setBanned)
}

func TestAppealDecisionSkipsEmailWithoutAddress(t *testing.T) {
	var mailCalls int
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		mailCalls++
		w.WriteHeader(http.StatusAccepted)
	})

	profiles := &fakeBanProfiles{profile: &models.Profile{UserID: "user-1"}}
	svc := &MongoAppealService{profiles: profiles, mailer: mailer}

	err := svc.finishDecision(context.Background(), &models.AccountAppeal{ID: "a", UserID: "user-1"}, false, "")
	require.NoError(t, err)
	assert.Equal(t, 0, mailCalls)
}
