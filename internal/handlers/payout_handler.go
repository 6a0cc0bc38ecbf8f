package handlers

import (
	"encoding/json"
	"log"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tunedrop/backend/internal/middleware"
	"github.com/tunedrop/backend/internal/models"
	"github.com/tunedrop/backend/internal/services"
)

type PayoutHandler struct {
	payouts   *services.MongoPayoutService
	royalties *services.MongoRoyaltyService
	stripe    *services.StripeClient
}

func NewPayoutHandler(payouts *services.MongoPayoutService, royalties *services.MongoRoyaltyService, stripe *services.StripeClient) *PayoutHandler {
	return &PayoutHandler{payouts: payouts, royalties: royalties, stripe: stripe}
}

// CreatePayout opens a payout request against the user's unpaid royalty
// balance.
func (h *PayoutHandler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	balance, err := h.royalties.UnpaidBalance(r.Context(), userID)
	if err != nil {
		log.Printf("[CreatePayout] Balance error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check balance"))
		return
	}
	if req.Amount > balance {
		writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Requested amount exceeds unpaid royalty balance"))
		return
	}

	payout, err := h.payouts.Create(r.Context(), userID, req.Amount)
	if err != nil {
		log.Printf("[CreatePayout] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create payout request"))
		return
	}

	log.Printf("[CreatePayout] Payout requested: %s amount=%.2f", payout.ID, payout.Amount)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(payout))
}

func (h *PayoutHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	payouts, err := h.payouts.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		log.Printf("[ListPayouts] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list payouts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payouts))
}

func (h *PayoutHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.payouts.List(r.Context(), r.URL.Query().Get("status"), queryLimit(r))
	if err != nil {
		log.Printf("[AdminListPayouts] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list payouts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payouts))
}

func (h *PayoutHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *PayoutHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *PayoutHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	payoutID := chi.URLParam(r, "payoutId")

	var req models.ReviewPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	var payout *models.PayoutRequest
	var err error
	if approve {
		payout, err = h.payouts.Approve(r.Context(), payoutID, req.Notes)
	} else {
		payout, err = h.payouts.Reject(r.Context(), payoutID, req.Notes)
	}
	if err != nil {
		h.writePayoutError(w, "ReviewPayout", err)
		return
	}

	log.Printf("[ReviewPayout] Payout %s approve=%v", payoutID, approve)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payout))
}

// Pay executes the Stripe payout for an approved request, then marks the
// request paid and settles the user's unpaid royalty lines.
func (h *PayoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	payoutID := chi.URLParam(r, "payoutId")

	payout, err := h.payouts.GetByID(r.Context(), payoutID)
	if err != nil {
		h.writePayoutError(w, "PayPayout", err)
		return
	}
	if payout.Status != models.PayoutStatusApproved {
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Payout request must be approved first"))
		return
	}

	amountCents := int64(math.Round(payout.Amount * 100))
	stripePayout, err := h.stripe.CreatePayout(r.Context(), amountCents, "usd", "Royalty payout "+payout.ID)
	if err != nil {
		log.Printf("[PayPayout] Stripe error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Stripe payout failed"))
		return
	}

	payout, err = h.payouts.MarkPaid(r.Context(), payoutID, stripePayout.ID)
	if err != nil {
		// Stripe already moved the money; surface the inconsistency loudly.
		log.Printf("[PayPayout] MarkPaid failed after Stripe payout %s: %v", stripePayout.ID, err)
		h.writePayoutError(w, "PayPayout", err)
		return
	}

	if err := h.royalties.MarkAllPaid(r.Context(), payout.UserID); err != nil {
		log.Printf("[PayPayout] Royalty settle failed user=%s err=%v", payout.UserID, err)
	}

	log.Printf("[PayPayout] Payout paid: %s stripe=%s", payoutID, stripePayout.ID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payout))
}

// Balance exposes the platform Stripe balance to admins.
func (h *PayoutHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.stripe.GetBalance(r.Context())
	if err != nil {
		log.Printf("[StripeBalance] Stripe error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to fetch Stripe balance"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(balance))
}

func (h *PayoutHandler) writePayoutError(w http.ResponseWriter, tag string, err error) {
	switch err {
	case services.ErrPayoutNotFound:
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Payout request not found"))
	case services.ErrPayoutDecided:
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Payout request already processed"))
	default:
		log.Printf("[%s] Service error: %v", tag, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal error"))
	}
}
