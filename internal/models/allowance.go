package models

import "time"

// TrackAllowance is a per-user monthly quota of distribution credits.
// Period is formatted "2006-01".
type TrackAllowance struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Period    string    `json:"period" bson:"period"`
	Granted   int       `json:"granted" bson:"granted"`
	Used      int       `json:"used" bson:"used"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Remaining never reports below zero.
func (a *TrackAllowance) Remaining() int {
	if a.Used >= a.Granted {
		return 0
	}
	return a.Granted - a.Used
}

type GrantAllowanceRequest struct {
	Tracks int `json:"tracks"`
}

func (r *GrantAllowanceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Tracks <= 0 {
		errors["tracks"] = "Tracks must be positive"
	}

	return errors
}
