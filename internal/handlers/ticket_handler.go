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

type TicketHandler struct {
	tickets  *services.MongoTicketService
	profiles *services.MongoProfileService
	mailer   *services.Mailer
}

func NewTicketHandler(tickets *services.MongoTicketService, profiles *services.MongoProfileService, mailer *services.Mailer) *TicketHandler {
	return &TicketHandler{tickets: tickets, profiles: profiles, mailer: mailer}
}

func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ticket, err := h.tickets.Create(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreateTicket] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create ticket"))
		return
	}

	log.Printf("[CreateTicket] Ticket created: %s ref=%s", ticket.ID, ticket.Reference)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(ticket))
}

func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tickets, err := h.tickets.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListTickets] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list tickets"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(tickets))
}

func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ticketID := chi.URLParam(r, "ticketId")

	ticket, err := h.tickets.GetByID(r.Context(), ticketID)
	if err != nil {
		h.writeTicketError(w, "GetTicket", err)
		return
	}
	if ticket.UserID != userID && middleware.GetRole(r.Context()) != models.AccountTypeAdmin {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to view this ticket"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ticket))
}

// Reply appends a user message. A reply to a closed ticket reopens it.
func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ticketID := chi.URLParam(r, "ticketId")

	var req models.TicketReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ticket, err := h.tickets.GetByID(r.Context(), ticketID)
	if err != nil {
		h.writeTicketError(w, "ReplyTicket", err)
		return
	}
	if ticket.UserID != userID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to reply to this ticket"))
		return
	}

	ticket, err = h.tickets.AddMessage(r.Context(), ticketID, userID, false, req.Message)
	if err != nil {
		h.writeTicketError(w, "ReplyTicket", err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ticket))
}

func (h *TicketHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.List(r.Context(), r.URL.Query().Get("status"), queryLimit(r))
	if err != nil {
		log.Printf("[AdminListTickets] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list tickets"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(tickets))
}

// AdminReply appends an admin message and emails the ticket owner. The email
// is best effort.
func (h *TicketHandler) AdminReply(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())
	ticketID := chi.URLParam(r, "ticketId")

	var req models.TicketReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ticket, err := h.tickets.AddMessage(r.Context(), ticketID, adminID, true, req.Message)
	if err != nil {
		h.writeTicketError(w, "AdminReplyTicket", err)
		return
	}

	if h.mailer != nil {
		prof, err := h.profiles.GetByUserID(r.Context(), ticket.UserID)
		if err == nil && prof.Email != "" {
			if err := h.mailer.SendTicketReplyEmail(r.Context(), prof.Email, ticket.Reference, req.Message); err != nil {
				log.Printf("[AdminReplyTicket] Email failed ticket=%s err=%v", ticket.ID, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ticket))
}

func (h *TicketHandler) Close(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")

	ticket, err := h.tickets.Close(r.Context(), ticketID)
	if err != nil {
		h.writeTicketError(w, "CloseTicket", err)
		return
	}

	log.Printf("[CloseTicket] Ticket closed: %s", ticketID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ticket))
}

func (h *TicketHandler) writeTicketError(w http.ResponseWriter, tag string, err error) {
	if err == services.ErrTicketNotFound {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Ticket not found"))
		return
	}
	log.Printf("[%s] Service error: %v", tag, err)
	writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal error"))
}
