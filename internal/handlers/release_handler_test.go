package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type stubReleases struct {
	release   *models.Release
	createErr error
	created   *models.CreateReleaseRequest
}

func (s *stubReleases) Create(ctx context.Context, userID string, req *models.CreateReleaseRequest) (*models.Release, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = req
	return s.release, nil
}

func (s *stubReleases) GetOwned(ctx context.Context, userID, id string) (*models.Release, error) {
	return nil, services.ErrReleaseNotFound
}

func (s *stubReleases) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Release, error) {
	return nil, nil
}

func (s *stubReleases) List(ctx context.Context, status models.ReleaseStatus, limit int) ([]*models.Release, error) {
	return nil, nil
}

func (s *stubReleases) Update(ctx context.Context, userID, id string, req *models.UpdateReleaseRequest) (*models.Release, error) {
	return nil, services.ErrReleaseNotFound
}

func (s *stubReleases) Delete(ctx context.Context, userID, id string) error {
	return services.ErrReleaseNotFound
}

func (s *stubReleases) RequestTakedown(ctx context.Context, userID, id string) (*models.Release, error) {
	return nil, services.ErrReleaseNotFound
}

type stubAllowances struct {
	consumeErr error
	consumed   []int
	refunded   []int
}

func (s *stubAllowances) Consume(ctx context.Context, userID string, tracks int) error {
	if s.consumeErr != nil {
		return s.consumeErr
	}
	s.consumed = append(s.consumed, tracks)
	return nil
}

func (s *stubAllowances) Refund(ctx context.Context, userID string, tracks int) error {
	s.refunded = append(s.refunded, tracks)
	return nil
}

type stubModerator struct {
	result *services.ArtworkResult
	err    error
}

func (s *stubModerator) ModerateAndPromote(ctx context.Context, pendingPath, userID string) (*services.ArtworkResult, error) {
	return s.result, s.err
}

type stubTakedownFlow struct {
	err error
}

func (s *stubTakedownFlow) UpdateStatus(ctx context.Context, id string, req *models.UpdateReleaseStatusRequest) (*models.Release, error) {
	return nil, s.err
}

func (s *stubTakedownFlow) ReviewTakedown(ctx context.Context, id string, approve bool, note string) (*models.Release, error) {
	return nil, s.err
}

type stubNotifications struct{}

func (s *stubNotifications) Insert(ctx context.Context, userID, title, body string) (*models.Notification, error) {
	return &models.Notification{UserID: userID, Title: title, Body: body}, nil
}

func authedJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func validCreateRequest() models.CreateReleaseRequest {
	return models.CreateReleaseRequest{
		Title:      "Night Drive",
		ArtistName: "Nova",
		Tracks:     []models.Track{{Title: "Opener", Position: 1}},
	}
}

func TestCreateReleaseAllowanceExceeded(t *testing.T) {
	releases := &stubReleases{}
	allowances := &stubAllowances{consumeErr: services.ErrAllowanceExceeded}
	h := NewReleaseHandler(releases, nil, allowances, nil)

	rec := httptest.NewRecorder()
	h.CreateRelease(rec, authedJSONRequest(t, http.MethodPost, "/api/releases", validCreateRequest()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, releases.created)
	assert.Empty(t, allowances.refunded)
}

func TestCreateReleaseRefundsOnInsertFailure(t *testing.T) {
	releases := &stubReleases{createErr: errors.New("write failed")}
	allowances := &stubAllowances{}
	h := NewReleaseHandler(releases, nil, allowances, nil)

	rec := httptest.NewRecorder()
	h.CreateRelease(rec, authedJSONRequest(t, http.MethodPost, "/api/releases", validCreateRequest()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []int{1}, allowances.consumed)
	assert.Equal(t, []int{1}, allowances.refunded)
}

func TestCreateReleaseRefundsOnArtworkRejection(t *testing.T) {
	releases := &stubReleases{}
	allowances := &stubAllowances{}
	h := NewReleaseHandler(releases, nil, allowances, &stubModerator{err: services.ErrArtworkRejected})

	req := validCreateRequest()
	req.ArtworkURL = "pending/cover.jpg"

	rec := httptest.NewRecorder()
	h.CreateRelease(rec, authedJSONRequest(t, http.MethodPost, "/api/releases", req))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, releases.created, "a rejected cover must not produce a release")
	assert.Equal(t, []int{1}, allowances.refunded)
}

func TestCreateReleaseStoresPromotedArtwork(t *testing.T) {
	releases := &stubReleases{release: &models.Release{ID: "rel-1", Title: "Night Drive"}}
	allowances := &stubAllowances{}
	moderator := &stubModerator{result: &services.ArtworkResult{ApprovedURL: "https://cdn.example.com/cover.jpg"}}
	h := NewReleaseHandler(releases, nil, allowances, moderator)

	req := validCreateRequest()
	req.ArtworkURL = "pending/cover.jpg"

	rec := httptest.NewRecorder()
	h.CreateRelease(rec, authedJSONRequest(t, http.MethodPost, "/api/releases", req))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, releases.created)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", releases.created.ArtworkURL)
	assert.Equal(t, []int{1}, allowances.consumed)
	assert.Empty(t, allowances.refunded)
}

func TestReviewTakedownWithoutRequestConflicts(t *testing.T) {
	lifecycle := &services.ReleaseLifecycle{
		Releases:      &stubTakedownFlow{err: services.ErrNoTakedownRequest},
		Notifications: &stubNotifications{},
	}
	h := NewReleaseHandler(&stubReleases{}, lifecycle, nil, nil)

	req := authedJSONRequest(t, http.MethodPost, "/api/admin/releases/rel-1/takedown-review", models.ReviewTakedownRequest{Approve: true})
	req = withURLParam(req, "releaseId", "rel-1")

	rec := httptest.NewRecorder()
	h.ReviewTakedown(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "No takedown request pending")
}
