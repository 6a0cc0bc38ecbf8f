package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type AllowanceHandler struct {
	allowances *services.MongoAllowanceService
}

func NewAllowanceHandler(allowances *services.MongoAllowanceService) *AllowanceHandler {
	return &AllowanceHandler{allowances: allowances}
}

func (h *AllowanceHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	allowance, err := h.allowances.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[GetAllowance] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get allowance"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(allowance))
}

// Grant adds track credits to a user's current period. Admin only.
func (h *AllowanceHandler) Grant(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.GrantAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	allowance, err := h.allowances.Grant(r.Context(), userID, req.Tracks)
	if err != nil {
		log.Printf("[GrantAllowance] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to grant allowance"))
		return
	}

	log.Printf("[GrantAllowance] Granted %d tracks to %s", req.Tracks, userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(allowance))
}
