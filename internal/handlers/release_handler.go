package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

// ArtworkModerator screens pending uploads before they are referenced.
// Satisfied by services.ArtworkModerationService.
type ArtworkModerator interface {
	ModerateAndPromote(ctx context.Context, pendingPath, userID string) (*services.ArtworkResult, error)
}

// releaseStore is the slice of the release service the handler uses.
type releaseStore interface {
	Create(ctx context.Context, userID string, req *models.CreateReleaseRequest) (*models.Release, error)
	GetOwned(ctx context.Context, userID, id string) (*models.Release, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Release, error)
	List(ctx context.Context, status models.ReleaseStatus, limit int) ([]*models.Release, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateReleaseRequest) (*models.Release, error)
	Delete(ctx context.Context, userID, id string) error
	RequestTakedown(ctx context.Context, userID, id string) (*models.Release, error)
}

type trackAllowances interface {
	Consume(ctx context.Context, userID string, tracks int) error
	Refund(ctx context.Context, userID string, tracks int) error
}

type ReleaseHandler struct {
	releases   releaseStore
	lifecycle  *services.ReleaseLifecycle
	allowances trackAllowances
	moderation ArtworkModerator
}

func NewReleaseHandler(releases releaseStore, lifecycle *services.ReleaseLifecycle, allowances trackAllowances, moderation ArtworkModerator) *ReleaseHandler {
	return &ReleaseHandler{
		releases:   releases,
		lifecycle:  lifecycle,
		allowances: allowances,
		moderation: moderation,
	}
}

func (h *ReleaseHandler) CreateRelease(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		log.Println("[CreateRelease] Unauthorized - no user ID in context")
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[CreateRelease] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	// Track credits are consumed before insert; the conditional update keeps
	// concurrent submissions from overdrawing the quota.
	if h.allowances != nil {
		if err := h.allowances.Consume(r.Context(), userID, len(req.Tracks)); err != nil {
			if err == services.ErrAllowanceExceeded {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Monthly track allowance exceeded"))
				return
			}
			log.Printf("[CreateRelease] Allowance error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check track allowance"))
			return
		}
	}

	// Credits were taken above; any failure from here on must hand them
	// back or the quota leaks on every rejected submission.
	refund := func() {
		if h.allowances == nil {
			return
		}
		if err := h.allowances.Refund(r.Context(), userID, len(req.Tracks)); err != nil {
			log.Printf("[CreateRelease] Allowance refund failed: %v", err)
		}
	}

	if h.moderation != nil && strings.HasPrefix(req.ArtworkURL, "pending/") {
		res, err := h.moderation.ModerateAndPromote(r.Context(), req.ArtworkURL, userID)
		if err != nil {
			refund()
			if err == services.ErrArtworkRejected || err == services.ErrArtworkTooLarge {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse(err.Error()))
				return
			}
			log.Printf("[CreateRelease] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to screen artwork"))
			return
		}
		req.ArtworkURL = res.ApprovedURL
	}

	release, err := h.releases.Create(r.Context(), userID, &req)
	if err != nil {
		refund()
		log.Printf("[CreateRelease] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create release"))
		return
	}

	log.Printf("[CreateRelease] Release created: %s", release.ID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(release))
}

func (h *ReleaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	releases, err := h.releases.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListReleases] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list releases"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(releases))
}

func (h *ReleaseHandler) GetRelease(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	releaseID := chi.URLParam(r, "releaseId")

	release, err := h.releases.GetOwned(r.Context(), userID, releaseID)
	if err != nil {
		h.writeReleaseError(w, "GetRelease", err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(release))
}

func (h *ReleaseHandler) UpdateRelease(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	releaseID := chi.URLParam(r, "releaseId")

	var req models.UpdateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if h.moderation != nil && strings.HasPrefix(req.ArtworkURL, "pending/") {
		res, err := h.moderation.ModerateAndPromote(r.Context(), req.ArtworkURL, userID)
		if err != nil {
			if err == services.ErrArtworkRejected || err == services.ErrArtworkTooLarge {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse(err.Error()))
				return
			}
			log.Printf("[UpdateRelease] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to screen artwork"))
			return
		}
		req.ArtworkURL = res.ApprovedURL
	}

	release, err := h.releases.Update(r.Context(), userID, releaseID, &req)
	if err != nil {
		h.writeReleaseError(w, "UpdateRelease", err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(release))
}

func (h *ReleaseHandler) DeleteRelease(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	releaseID := chi.URLParam(r, "releaseId")

	if err := h.releases.Delete(r.Context(), userID, releaseID); err != nil {
		h.writeReleaseError(w, "DeleteRelease", err)
		return
	}

	log.Printf("[DeleteRelease] Release deleted: %s", releaseID)
	writeJSON(w, http.StatusOK, models.NewMessageResponse("Release deleted"))
}

func (h *ReleaseHandler) RequestTakedown(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	releaseID := chi.URLParam(r, "releaseId")

	release, err := h.releases.RequestTakedown(r.Context(), userID, releaseID)
	if err != nil {
		h.writeReleaseError(w, "RequestTakedown", err)
		return
	}

	log.Printf("[RequestTakedown] Takedown requested: %s", releaseID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(release))
}

// AdminList returns releases across all users, optionally filtered by status.
func (h *ReleaseHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	status := models.ReleaseStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown status"))
		return
	}

	releases, err := h.releases.List(r.Context(), status, queryLimit(r))
	if err != nil {
		log.Printf("[AdminListReleases] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list releases"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(releases))
}

func (h *ReleaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	releaseID := chi.URLParam(r, "releaseId")

	var req models.UpdateReleaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	release, err := h.lifecycle.UpdateStatus(r.Context(), releaseID, &req)
	if err != nil {
		h.writeReleaseError(w, "UpdateStatus", err)
		return
	}

	log.Printf("[UpdateStatus] Release %s -> %s", releaseID, release.Status)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(release))
}

func (h *ReleaseHandler) ReviewTakedown(w http.ResponseWriter, r *http.Request) {
	releaseID := chi.URLParam(r, "releaseId")

	var req models.ReviewTakedownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	release, err := h.lifecycle.ReviewTakedown(r.Context(), releaseID, req.Approve, req.Note)
	if err != nil {
		h.writeReleaseError(w, "ReviewTakedown", err)
		return
	}

	log.Printf("[ReviewTakedown] Release %s approve=%v", releaseID, req.Approve)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(release))
}

func (h *ReleaseHandler) writeReleaseError(w http.ResponseWriter, tag string, err error) {
	switch err {
	case services.ErrReleaseNotFound:
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Release not found"))
	case services.ErrUnauthorized:
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to modify this release"))
	case services.ErrReleaseNotDeletable:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Release must be taken down before it can be deleted"))
	case services.ErrReleaseNotEditable:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Release can no longer be edited"))
	case services.ErrTakedownNotAllowed:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Takedown can only be requested for an approved release"))
	case services.ErrTakedownRequested:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Takedown already requested"))
	case services.ErrNoTakedownRequest:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("No takedown request pending for this release"))
	case services.ErrInvalidStatus:
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown status"))
	default:
		log.Printf("[%s] Service error: %v", tag, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal error"))
	}
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
