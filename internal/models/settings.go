package models

import "time"

// MaintenanceSettings is a singleton document. While enabled, non-admin API
// calls are refused with 503.
type MaintenanceSettings struct {
	Enabled   bool      `json:"enabled" bson:"enabled"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
