package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type RoyaltyHandler struct {
	royalties *services.MongoRoyaltyService
}

func NewRoyaltyHandler(royalties *services.MongoRoyaltyService) *RoyaltyHandler {
	return &RoyaltyHandler{royalties: royalties}
}

func (h *RoyaltyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	royalties, err := h.royalties.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListRoyalties] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list royalties"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(royalties))
}

func (h *RoyaltyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balance, err := h.royalties.UnpaidBalance(r.Context(), userID)
	if err != nil {
		log.Printf("[RoyaltyBalance] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get balance"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]float64{"unpaid_balance": balance}))
}

// Create records an earnings line for a user. Admin only.
func (h *RoyaltyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoyaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	royalty, err := h.royalties.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateRoyalty] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create royalty"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(royalty))
}
