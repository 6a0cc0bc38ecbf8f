package models

import (
	"strings"
	"time"
)

const (
	AppealStatusPending  = "pending"
	AppealStatusApproved = "approved"
	AppealStatusDenied   = "denied"
)

// AccountAppeal is a banned user's request for reinstatement.
type AccountAppeal struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	DecidedBy string    `json:"decided_by,omitempty" bson:"decided_by,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	DecidedAt time.Time `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
}

type CreateAppealRequest struct {
	Message string `json:"message"`
}

func (r *CreateAppealRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Message) == "" {
		errors["message"] = "Message is required"
	} else if len(r.Message) > 4000 {
		errors["message"] = "Message is too long"
	}

	return errors
}

type DecideAppealRequest struct {
	Approve bool   `json:"approve"`
	Message string `json:"message"`
}
