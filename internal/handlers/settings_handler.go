package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type SettingsHandler struct {
	settings *services.MongoSettingsService
}

func NewSettingsHandler(settings *services.MongoSettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetMaintenance(r.Context())
	if err != nil {
		log.Printf("[GetMaintenance] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get maintenance settings"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}

func (h *SettingsHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req struct {
		Enabled bool   `json:"enabled"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	settings, err := h.settings.SetMaintenance(r.Context(), req.Enabled, req.Message, adminID)
	if err != nil {
		log.Printf("[SetMaintenance] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update maintenance settings"))
		return
	}

	log.Printf("[SetMaintenance] Maintenance enabled=%v by=%s", req.Enabled, adminID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}
