package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tunedrop/backend/internal/models"
)

type fakeChecker struct {
	settings *models.MaintenanceSettings
	err      error
	calls    int
}

func (f *fakeChecker) GetMaintenance(ctx context.Context) (*models.MaintenanceSettings, error) {
	f.calls++
	return f.settings, f.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMaintenanceDisabledPassesThrough(t *testing.T) {
	checker := &fakeChecker{settings: &models.MaintenanceSettings{Enabled: false}}
	handler := Maintenance(checker, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenanceBlocksNonAdmins(t *testing.T) {
	checker := &fakeChecker{settings: &models.MaintenanceSettings{Enabled: true, Message: "back soon"}}
	handler := Maintenance(checker, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "back soon")
}

func TestMaintenanceAdminsBypass(t *testing.T) {
	checker := &fakeChecker{settings: &models.MaintenanceSettings{Enabled: true}}
	handler := Maintenance(checker, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), RoleKey, models.AccountTypeAdmin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenanceFailsOpen(t *testing.T) {
	checker := &fakeChecker{err: errors.New("mongo down")}
	handler := Maintenance(checker, time.Minute)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenanceCachesWithinTTL(t *testing.T) {
	checker := &fakeChecker{settings: &models.MaintenanceSettings{Enabled: false}}
	handler := Maintenance(checker, time.Minute)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, checker.calls)
}
