package models

import (
	"strings"
	"time"
)

const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

type TicketMessage struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	FromAdmin bool      `json:"from_admin" bson:"from_admin"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type SupportTicket struct {
	ID        string          `json:"id" bson:"_id"`
	Reference string          `json:"reference" bson:"reference"`
	UserID    string          `json:"user_id" bson:"user_id"`
	Subject   string          `json:"subject" bson:"subject"`
	Status    string          `json:"status" bson:"status"`
	Messages  []TicketMessage `json:"messages" bson:"messages"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r *CreateTicketRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Subject) == "" {
		errors["subject"] = "Subject is required"
	} else if len(r.Subject) > 200 {
		errors["subject"] = "Subject is too long"
	}
	if strings.TrimSpace(r.Message) == "" {
		errors["message"] = "Message is required"
	} else if len(r.Message) > 4000 {
		errors["message"] = "Message is too long"
	}

	return errors
}

type TicketReplyRequest struct {
	Message string `json:"message"`
}

func (r *TicketReplyRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Message) == "" {
		errors["message"] = "Message is required"
	} else if len(r.Message) > 4000 {
		errors["message"] = "Message is too long"
	}

	return errors
}
