package models

import (
	"strings"
	"time"
)

type Announcement struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Published bool      `json:"published" bson:"published"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateAnnouncementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (r *CreateAnnouncementRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.Body) == "" {
		errors["body"] = "Body is required"
	}

	return errors
}

// AnnouncementBar is the single site-wide banner. Stored as a singleton doc.
type AnnouncementBar struct {
	Enabled   bool      `json:"enabled" bson:"enabled"`
	Text      string    `json:"text" bson:"text"`
	Link      string    `json:"link,omitempty" bson:"link,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
