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

type FineHandler struct {
	fines *services.MongoFineService
}

func NewFineHandler(fines *services.MongoFineService) *FineHandler {
	return &FineHandler{fines: fines}
}

func (h *FineHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	fines, err := h.fines.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListFines] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list fines"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(fines))
}

// IssueFine is admin-only. Real fines add a strike; the third strike also
// creates the automatic suspension penalty.
func (h *FineHandler) IssueFine(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req models.IssueFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	fine, penalty, err := h.fines.IssueFine(r.Context(), adminID, &req)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[IssueFine] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to issue fine"))
		return
	}

	log.Printf("[IssueFine] Fine issued: %s strike=%d mock=%v penalty=%v", fine.ID, fine.StrikeNumber, fine.IsMock, penalty != nil)

	resp := map[string]interface{}{"fine": fine}
	if penalty != nil {
		resp["penalty_fine"] = penalty
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(resp))
}

func (h *FineHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	fines, err := h.fines.List(r.Context(), r.URL.Query().Get("user_id"), queryLimit(r))
	if err != nil {
		log.Printf("[AdminListFines] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list fines"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(fines))
}

func (h *FineHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	fineID := chi.URLParam(r, "fineId")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	switch req.Status {
	case models.FineStatusPending, models.FineStatusPaid, models.FineStatusWaived:
	default:
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Status must be pending, paid or waived"))
		return
	}

	fine, err := h.fines.SetStatus(r.Context(), fineID, req.Status)
	if err != nil {
		if err == services.ErrFineNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Fine not found"))
			return
		}
		log.Printf("[SetFineStatus] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update fine"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(fine))
}
