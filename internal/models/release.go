package models

import (
	"strings"
	"time"
)

// ReleaseStatus is the moderation/distribution pipeline state of a release.
type ReleaseStatus string

const (
	StatusPending         ReleaseStatus = "pending"
	StatusPendingPayment  ReleaseStatus = "pending_payment"
	StatusPayLater        ReleaseStatus = "pay_later"
	StatusPaid            ReleaseStatus = "paid"
	StatusProcessing      ReleaseStatus = "processing"
	StatusApproved        ReleaseStatus = "approved"
	StatusDelivering      ReleaseStatus = "delivering"
	StatusDelivered       ReleaseStatus = "delivered"
	StatusRejected        ReleaseStatus = "rejected"
	StatusTakenDown       ReleaseStatus = "taken down"
	StatusStriked         ReleaseStatus = "striked"
	StatusOnHold          ReleaseStatus = "on hold"
	StatusAwaitingFinalQC ReleaseStatus = "awaiting final qc"
)

var releaseStatuses = map[ReleaseStatus]struct{}{
	StatusPending:         {},
	StatusPendingPayment:  {},
	StatusPayLater:        {},
	StatusPaid:            {},
	StatusProcessing:      {},
	StatusApproved:        {},
	StatusDelivering:      {},
	StatusDelivered:       {},
	StatusRejected:        {},
	StatusTakenDown:       {},
	StatusStriked:         {},
	StatusOnHold:          {},
	StatusAwaitingFinalQC: {},
}

// Valid reports whether s is a known pipeline status. Admins may move a
// release between any two known statuses; only unknown strings are refused.
func (s ReleaseStatus) Valid() bool {
	_, ok := releaseStatuses[s]
	return ok
}

// Deletable reports whether the owner may delete a release in this status.
// Anything in or past the paid pipeline must be taken down first.
func (s ReleaseStatus) Deletable() bool {
	switch s {
	case StatusPendingPayment, StatusPayLater, StatusRejected, StatusStriked, StatusTakenDown:
		return true
	}
	return false
}

// Editable reports whether the owner may still change release metadata.
func (s ReleaseStatus) Editable() bool {
	switch s {
	case StatusPendingPayment, StatusPayLater, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the release has left the pipeline.
func (s ReleaseStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusRejected, StatusTakenDown:
		return true
	}
	return false
}

type Track struct {
	Title    string `json:"title" bson:"title"`
	Position int    `json:"position" bson:"position"`
	ISRC     string `json:"isrc,omitempty" bson:"isrc,omitempty"`
	Duration int    `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
}

type Release struct {
	ID                string        `json:"id" bson:"_id"`
	UserID            string        `json:"user_id" bson:"user_id"`
	Title             string        `json:"title" bson:"title"`
	ArtistName        string        `json:"artist_name" bson:"artist_name"`
	Genre             string        `json:"genre,omitempty" bson:"genre,omitempty"`
	ReleaseDate       time.Time     `json:"release_date,omitempty" bson:"release_date,omitempty"`
	Status            ReleaseStatus `json:"status" bson:"status"`
	TakedownRequested bool          `json:"takedown_requested" bson:"takedown_requested"`
	RejectionReason   string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	Notes             string        `json:"notes,omitempty" bson:"notes,omitempty"`
	ArtworkURL        string        `json:"artwork_url,omitempty" bson:"artwork_url,omitempty"`
	AudioFileURL      string        `json:"audio_file_url,omitempty" bson:"audio_file_url,omitempty"`
	Tracks            []Track       `json:"tracks" bson:"tracks"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateReleaseRequest struct {
	Title        string    `json:"title"`
	ArtistName   string    `json:"artist_name"`
	Genre        string    `json:"genre"`
	ReleaseDate  time.Time `json:"release_date"`
	ArtworkURL   string    `json:"artwork_url"`
	AudioFileURL string    `json:"audio_file_url"`
	Tracks       []Track   `json:"tracks"`
}

func (r *CreateReleaseRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.ArtistName) == "" {
		errors["artist_name"] = "Artist name is required"
	}
	if len(r.Tracks) == 0 {
		errors["tracks"] = "At least one track is required"
	}
	for _, t := range r.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			errors["tracks"] = "Every track needs a title"
			break
		}
	}

	return errors
}

type UpdateReleaseRequest struct {
	Title        string    `json:"title"`
	ArtistName   string    `json:"artist_name"`
	Genre        string    `json:"genre"`
	ReleaseDate  time.Time `json:"release_date"`
	ArtworkURL   string    `json:"artwork_url"`
	AudioFileURL string    `json:"audio_file_url"`
	Tracks       []Track   `json:"tracks"`
}

func (r *UpdateReleaseRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.ArtistName) == "" {
		errors["artist_name"] = "Artist name is required"
	}

	return errors
}

type UpdateReleaseStatusRequest struct {
	Status          ReleaseStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason"`
	Notes           string        `json:"notes"`
}

func (r *UpdateReleaseStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Status == "" {
		errors["status"] = "Status is required"
	} else if !r.Status.Valid() {
		errors["status"] = "Unknown status"
	}
	if r.Status == StatusRejected && strings.TrimSpace(r.RejectionReason) == "" {
		errors["rejection_reason"] = "Rejection reason is required when rejecting"
	}

	return errors
}

type ReviewTakedownRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}
