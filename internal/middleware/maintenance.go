package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tunedrop/backend/internal/models"
)

// MaintenanceChecker reports the current maintenance settings.
type MaintenanceChecker interface {
	GetMaintenance(ctx context.Context) (*models.MaintenanceSettings, error)
}

// Maintenance blocks non-admin traffic with 503 while maintenance mode is
// enabled. Settings are re-read at most once per ttl; a read failure fails
// open so a settings outage cannot take the API down with it.
func Maintenance(checker MaintenanceChecker, ttl time.Duration) func(http.Handler) http.Handler {
	var (
		mu        sync.Mutex
		cached    *models.MaintenanceSettings
		fetchedAt time.Time
	)

	lookup := func(ctx context.Context) *models.MaintenanceSettings {
		mu.Lock()
		defer mu.Unlock()
		if cached != nil && time.Since(fetchedAt) < ttl {
			return cached
		}
		settings, err := checker.GetMaintenance(ctx)
		if err != nil {
			return cached
		}
		cached = settings
		fetchedAt = time.Now()
		return cached
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			settings := lookup(r.Context())
			if settings != nil && settings.Enabled && GetRole(r.Context()) != models.AccountTypeAdmin {
				msg := settings.Message
				if msg == "" {
					msg = "The platform is down for maintenance"
				}
				writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
