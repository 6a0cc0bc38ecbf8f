package handlers

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type BillingHandler struct {
	stripe *services.StripeClient
	fines  *services.MongoFineService
}

func NewBillingHandler(stripe *services.StripeClient, fines *services.MongoFineService) *BillingHandler {
	return &BillingHandler{stripe: stripe, fines: fines}
}

// CreateFineCheckout opens a Stripe Checkout session for one of the caller's
// pending fines.
func (h *BillingHandler) CreateFineCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		FineID     string `json:"fine_id"`
		SuccessURL string `json:"success_url"`
		CancelURL  string `json:"cancel_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.FineID) == "" || strings.TrimSpace(req.SuccessURL) == "" || strings.TrimSpace(req.CancelURL) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("fine_id, success_url and cancel_url are required"))
		return
	}

	fine, err := h.fines.GetByID(r.Context(), req.FineID)
	if err != nil {
		if err == services.ErrFineNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Fine not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to look up fine"))
		return
	}
	if fine.UserID != userID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to pay this fine"))
		return
	}
	if fine.Status != models.FineStatusPending {
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Fine is not pending"))
		return
	}

	amountCents := int64(math.Round(fine.Amount * 100))
	session, err := h.stripe.CreateCheckoutSession(r.Context(), amountCents, "usd", "Fine: "+fine.Reason, req.SuccessURL, req.CancelURL)
	if err != nil {
		log.Printf("[FineCheckout] Stripe error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to create checkout session"))
		return
	}

	log.Printf("[FineCheckout] Session created fine=%s session=%s", fine.ID, session.ID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(session))
}

// CustomerPortal opens the Stripe billing portal for subscription management.
func (h *BillingHandler) CustomerPortal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
		ReturnURL  string `json:"return_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.ReturnURL) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("customer_id and return_url are required"))
		return
	}

	session, err := h.stripe.CreatePortalSession(r.Context(), req.CustomerID, req.ReturnURL)
	if err != nil {
		log.Printf("[CustomerPortal] Stripe error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to create portal session"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(session))
}
