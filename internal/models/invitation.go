package models

import (
	"net/mail"
	"strings"
	"time"
)

const (
	InvitationKindArtist   = "artist"
	InvitationKindSublabel = "sublabel"
)

type Invitation struct {
	ID         string    `json:"id" bson:"_id"`
	Email      string    `json:"email" bson:"email"`
	Token      string    `json:"-" bson:"token"`
	Kind       string    `json:"kind" bson:"kind"`
	LabelID    string    `json:"label_id,omitempty" bson:"label_id,omitempty"`
	Accepted   bool      `json:"accepted" bson:"accepted"`
	AcceptedBy string    `json:"accepted_by,omitempty" bson:"accepted_by,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" bson:"expires_at"`
}

type CreateInvitationRequest struct {
	Email   string `json:"email"`
	Kind    string `json:"kind"`
	LabelID string `json:"label_id"`
}

func (r *CreateInvitationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errors["email"] = "Email is invalid"
	}
	switch r.Kind {
	case InvitationKindArtist:
	case InvitationKindSublabel:
		if strings.TrimSpace(r.LabelID) == "" {
			errors["label_id"] = "Label ID is required for sublabel invitations"
		}
	default:
		errors["kind"] = "Kind must be artist or sublabel"
	}

	return errors
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

type Label struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
