package models

import (
	"strings"
	"time"
)

const (
	// SuspensionStrikeCount is the strike number that triggers automatic
	// suspension billing.
	SuspensionStrikeCount = 3

	// SuspensionPenaltyAmount is the fixed penalty charged on the third strike.
	SuspensionPenaltyAmount = 55.0

	SuspensionPenaltyReason = "Account suspension penalty - 3 strikes reached"
)

const (
	FineStatusPending = "pending"
	FineStatusPaid    = "paid"
	FineStatusWaived  = "waived"
)

// Fine is a monetary penalty issued against a user account. Mock fines are
// demonstration rows: they always carry strike number 0 and never touch the
// profile strike count.
type Fine struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Amount       float64   `json:"amount" bson:"amount"`
	FineType     string    `json:"fine_type" bson:"fine_type"`
	Reason       string    `json:"reason" bson:"reason"`
	StrikeNumber int       `json:"strike_number" bson:"strike_number"`
	IsMock       bool      `json:"is_mock" bson:"is_mock"`
	Status       string    `json:"status" bson:"status"`
	IssuedBy     string    `json:"issued_by" bson:"issued_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// PenaltyDue reports whether issuing a fine at this strike number must also
// create the automatic suspension penalty fine.
func PenaltyDue(strikeNumber int, isMock bool) bool {
	return !isMock && strikeNumber >= SuspensionStrikeCount
}

type IssueFineRequest struct {
	UserID   string  `json:"user_id"`
	Amount   float64 `json:"amount"`
	FineType string  `json:"fine_type"`
	Reason   string  `json:"reason"`
	IsMock   bool    `json:"is_mock"`
}

func (r *IssueFineRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.UserID) == "" {
		errors["user_id"] = "User ID is required"
	}
	if r.Amount <= 0 {
		errors["amount"] = "Amount must be positive"
	}
	if strings.TrimSpace(r.FineType) == "" {
		errors["fine_type"] = "Fine type is required"
	}
	if strings.TrimSpace(r.Reason) == "" {
		errors["reason"] = "Reason is required"
	}

	return errors
}
