package models

import "time"

const (
	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusRejected = "rejected"
	PayoutStatusPaid     = "paid"
)

type PayoutRequest struct {
	ID             string     `json:"id" bson:"_id"`
	UserID         string     `json:"user_id" bson:"user_id"`
	Amount         float64    `json:"amount" bson:"amount"`
	Status         string     `json:"status" bson:"status"`
	AdminNotes     string     `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	StripePayoutID string     `json:"stripe_payout_id,omitempty" bson:"stripe_payout_id,omitempty"`
	RequestedAt    time.Time  `json:"requested_at" bson:"requested_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

type CreatePayoutRequest struct {
	Amount float64 `json:"amount"`
}

func (r *CreatePayoutRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Amount <= 0 {
		errors["amount"] = "Amount must be positive"
	}

	return errors
}

type ReviewPayoutRequest struct {
	Notes string `json:"notes"`
}
