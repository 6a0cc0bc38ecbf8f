package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

type fakeStrikeProfiles struct {
	strikes   int
	addErr    error
	addCalls  int
	suspended []bool
}

func (f *fakeStrikeProfiles) AddStrike(ctx context.Context, userID string) (int, error) {
	f.addCalls++
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.strikes++
	return f.strikes, nil
}

func (f *fakeStrikeProfiles) SetSuspended(ctx context.Context, userID string, suspended bool) (*models.Profile, error) {
	f.suspended = append(f.suspended, suspended)
	return &models.Profile{UserID: userID, IsSuspended: suspended}, nil
}

type fineRecorder struct {
	inserted []*models.Fine
	err      error
}

func (r *fineRecorder) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	fine := document.(*models.Fine)
	r.inserted = append(r.inserted, fine)
	return &mongo.InsertOneResult{InsertedID: fine.ID}, nil
}

func issueReq(isMock bool) *models.IssueFineRequest {
	return &models.IssueFineRequest{
		UserID:   "user-1",
		Amount:   25,
		FineType: "copyright",
		Reason:   "uncleared sample",
		IsMock:   isMock,
	}
}

func TestIssueFineMockNeverStrikes(t *testing.T) {
	rec := &fineRecorder{}
	profiles := &fakeStrikeProfiles{strikes: 2}
	svc := &MongoFineService{fines: rec, profiles: profiles}

	fine, penalty, err := svc.IssueFine(context.Background(), "admin-1", issueReq(true))
	require.NoError(t, err)
	assert.Nil(t, penalty)

	assert.Equal(t, 0, fine.StrikeNumber)
	assert.True(t, fine.IsMock)
	assert.Equal(t, 0, profiles.addCalls)
	assert.Empty(t, profiles.suspended)
	require.Len(t, rec.inserted, 1)
	assert.Equal(t, models.FineStatusPending, rec.inserted[0].Status)
}

func TestIssueFineRecordsStrike(t *testing.T) {
	rec := &fineRecorder{}
	profiles := &fakeStrikeProfiles{}
	svc := &MongoFineService{fines: rec, profiles: profiles}

	fine, penalty, err := svc.IssueFine(context.Background(), "admin-1", issueReq(false))
	require.NoError(t, err)
	assert.Nil(t, penalty)

	assert.Equal(t, 1, fine.StrikeNumber)
	assert.Equal(t, "admin-1", fine.IssuedBy)
	assert.Empty(t, profiles.suspended)
	require.Len(t, rec.inserted, 1)
}

func TestIssueFineThirdStrikeAddsPenaltyAndSuspends(t *testing.T) {
	rec := &fineRecorder{}
	profiles := &fakeStrikeProfiles{strikes: 2}
	svc := &MongoFineService{fines: rec, profiles: profiles}

	fine, penalty, err := svc.IssueFine(context.Background(), "admin-1", issueReq(false))
	require.NoError(t, err)
	require.NotNil(t, penalty)

	assert.Equal(t, 3, fine.StrikeNumber)
	require.Len(t, rec.inserted, 2)

	p := rec.inserted[1]
	assert.Equal(t, models.SuspensionPenaltyAmount, p.Amount)
	assert.Equal(t, "suspension_penalty", p.FineType)
	assert.Equal(t, models.SuspensionPenaltyReason, p.Reason)
	assert.Equal(t, 3, p.StrikeNumber)
	assert.Equal(t, models.FineStatusPending, p.Status)
	assert.NotEqual(t, fine.ID, p.ID)

	assert.Equal(t, []bool{true}, profiles.suspended)
}

func TestIssueFineStrikeFailureInsertsNothing(t *testing.T) {
	rec := &fineRecorder{}
	profiles := &fakeStrikeProfiles{addErr: errors.New("profile write failed")}
	svc := &MongoFineService{fines: rec, profiles: profiles}

	_, _, err := svc.IssueFine(context.Background(), "admin-1", issueReq(false))
	require.Error(t, err)
	assert.Empty(t, rec.inserted)
	assert.Empty(t, profiles.suspended)
}
