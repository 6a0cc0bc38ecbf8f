package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

// AdminUserHandler covers admin actions against user accounts: moderation
// flags, MFA resets, outbound email and full account deletion.
type AdminUserHandler struct {
	profiles *services.MongoProfileService
	account  *services.AccountService
	mailer   *services.Mailer
}

func NewAdminUserHandler(profiles *services.MongoProfileService, account *services.AccountService, mailer *services.Mailer) *AdminUserHandler {
	return &AdminUserHandler{profiles: profiles, account: account, mailer: mailer}
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context(), queryLimit(r))
	if err != nil {
		log.Printf("[AdminListUsers] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list users"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

func (h *AdminUserHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "SetBanned", h.profiles.SetBanned)
}

func (h *AdminUserHandler) SetSuspended(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "SetSuspended", h.profiles.SetSuspended)
}

func (h *AdminUserHandler) SetLocked(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "SetLocked", h.profiles.SetLocked)
}

func (h *AdminUserHandler) setFlag(w http.ResponseWriter, r *http.Request, tag string, set func(ctx context.Context, userID string, value bool) (*models.Profile, error)) {
	userID := chi.URLParam(r, "userId")

	var req struct {
		Value bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	profile, err := set(r.Context(), userID, req.Value)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[%s] Service error: %v", tag, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update user"))
		return
	}

	log.Printf("[%s] user=%s value=%v", tag, userID, req.Value)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

// DisableMFA clears a user's MFA enrollment so they can re-enroll after
// losing their second factor.
func (h *AdminUserHandler) DisableMFA(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	profile, err := h.profiles.DisableMFA(r.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[DisableMFA] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to disable MFA"))
		return
	}

	log.Printf("[DisableMFA] MFA disabled for %s", userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

// SendEmail is the generic admin-to-user email.
func (h *AdminUserHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Subject and body are required"))
		return
	}

	prof, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to look up user"))
		return
	}
	if prof.Email == "" {
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("User has no email on file"))
		return
	}

	if err := h.mailer.SendUserEmail(r.Context(), prof.Email, req.Subject, req.Body); err != nil {
		log.Printf("[SendUserEmail] Email failed user=%s err=%v", userID, err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to send email"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("Email sent"))
}

// DeleteUser removes the account everywhere and returns storage object URLs
// for client-side cleanup.
func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.account.DeleteUser(r.Context(), userID)
	if err != nil {
		log.Printf("[DeleteUser] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete user"))
		return
	}

	log.Printf("[DeleteUser] User deleted: %s releases=%d objects=%d", userID, len(result.ReleaseIDs), len(result.ObjectURLs))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
