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

type InvitationHandler struct {
	invitations *services.MongoInvitationService
}

func NewInvitationHandler(invitations *services.MongoInvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	invitation, err := h.invitations.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateInvitation] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create invitation"))
		return
	}

	log.Printf("[CreateInvitation] Invitation created: %s kind=%s", invitation.ID, invitation.Kind)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(invitation))
}

func (h *InvitationHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = models.InvitationKindArtist
	}

	invitations, err := h.invitations.List(r.Context(), kind, queryLimit(r))
	if err != nil {
		log.Printf("[AdminListInvitations] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list invitations"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(invitations))
}

// Accept consumes an invitation token and links the caller to the invited
// role.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Token is required"))
		return
	}

	invitation, err := h.invitations.Accept(r.Context(), req.Token, userID)
	if err != nil {
		if err == services.ErrInvitationNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Invitation not found or expired"))
			return
		}
		log.Printf("[AcceptInvitation] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to accept invitation"))
		return
	}

	log.Printf("[AcceptInvitation] Invitation accepted: %s by=%s", invitation.ID, userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(invitation))
}
