package models

import (
	"strings"
	"time"
)

// Royalty is one earnings line for a user, attributable to a release and an
// accounting period. Paid lines have been covered by a completed payout.
type Royalty struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ReleaseID string    `json:"release_id,omitempty" bson:"release_id,omitempty"`
	Period    string    `json:"period" bson:"period"`
	Amount    float64   `json:"amount" bson:"amount"`
	Paid      bool      `json:"paid" bson:"paid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CreateRoyaltyRequest struct {
	UserID    string  `json:"user_id"`
	ReleaseID string  `json:"release_id"`
	Period    string  `json:"period"`
	Amount    float64 `json:"amount"`
}

func (r *CreateRoyaltyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.UserID) == "" {
		errors["user_id"] = "User ID is required"
	}
	if strings.TrimSpace(r.Period) == "" {
		errors["period"] = "Period is required"
	}
	if r.Amount <= 0 {
		errors["amount"] = "Amount must be positive"
	}

	return errors
}
