package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type ProfileHandler struct {
	profiles   *services.MongoProfileService
	moderation ArtworkModerator
}

func NewProfileHandler(profiles *services.MongoProfileService, moderation ArtworkModerator) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, moderation: moderation}
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	profile, err := h.profiles.GetOrCreate(r.Context(), userID, "")
	if err != nil {
		log.Printf("[GetProfile] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *ProfileHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	// Avatar uploads land in pending/ and must pass screening first.
	if req.AvatarURL != nil && h.moderation != nil && strings.HasPrefix(*req.AvatarURL, "pending/") {
		res, err := h.moderation.ModerateAndPromote(r.Context(), *req.AvatarURL, userID)
		if err != nil {
			if err == services.ErrArtworkRejected || err == services.ErrArtworkTooLarge {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse(err.Error()))
				return
			}
			log.Printf("[UpdateProfile] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to screen image"))
			return
		}
		req.AvatarURL = &res.ApprovedURL
	}

	profile, err := h.profiles.Update(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		log.Printf("[UpdateProfile] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}
