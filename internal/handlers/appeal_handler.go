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

type AppealHandler struct {
	appeals *services.MongoAppealService
}

func NewAppealHandler(appeals *services.MongoAppealService) *AppealHandler {
	return &AppealHandler{appeals: appeals}
}

func (h *AppealHandler) CreateAppeal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	appeal, err := h.appeals.Create(r.Context(), userID, req.Message)
	if err != nil {
		log.Printf("[CreateAppeal] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit appeal"))
		return
	}

	log.Printf("[CreateAppeal] Appeal submitted: %s", appeal.ID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(appeal))
}

func (h *AppealHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	appeals, err := h.appeals.List(r.Context(), r.URL.Query().Get("status"), queryLimit(r))
	if err != nil {
		log.Printf("[AdminListAppeals] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list appeals"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(appeals))
}

// Decide resolves a pending appeal. Approval lifts the ban.
func (h *AppealHandler) Decide(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())
	appealID := chi.URLParam(r, "appealId")

	var req models.DecideAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	appeal, err := h.appeals.Decide(r.Context(), appealID, adminID, req.Approve, req.Message)
	if err != nil {
		switch err {
		case services.ErrAppealNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Appeal not found"))
		case services.ErrAppealDecided:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Appeal already decided"))
		default:
			log.Printf("[DecideAppeal] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to decide appeal"))
		}
		return
	}

	log.Printf("[DecideAppeal] Appeal %s approve=%v", appealID, req.Approve)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(appeal))
}
