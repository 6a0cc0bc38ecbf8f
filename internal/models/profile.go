package models

import "time"

const (
	AccountTypeArtist   = "artist"
	AccountTypeLabel    = "label"
	AccountTypeSublabel = "sublabel"
	AccountTypeAdmin    = "admin"
)

// Profile holds account-level state mutated by moderation actions: strikes,
// bans, suspension, maintenance locks.
type Profile struct {
	UserID      string    `json:"user_id" bson:"user_id"`
	Email       string    `json:"email" bson:"email,omitempty"`
	ArtistName  string    `json:"artist_name" bson:"artist_name,omitempty"`
	AccountType string    `json:"account_type" bson:"account_type"`
	LabelID     string    `json:"label_id,omitempty" bson:"label_id,omitempty"`
	StrikeCount int       `json:"strike_count" bson:"strike_count"`
	IsBanned    bool      `json:"is_banned" bson:"is_banned"`
	IsSuspended bool      `json:"is_suspended" bson:"is_suspended"`
	IsLocked    bool      `json:"is_locked" bson:"is_locked"`
	MFAEnabled  bool      `json:"mfa_enabled" bson:"mfa_enabled"`
	AvatarURL   string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type UpdateProfileRequest struct {
	ArtistName *string `json:"artist_name"`
	AvatarURL  *string `json:"avatar_url"`
}
