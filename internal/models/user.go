package models

import (
	"encoding/json"
	"time"
)

// Location is a coarse position attached to users and listings. Callers
// provide either city/state or latitude/longitude, never both.
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
}

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Location     *Location `json:"location,omitempty"`
	LocationJSON string    `json:"-"` // Stored as JSON text
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PrepareForDB marshals the nested location into its JSON string form before saving.
func (u *User) PrepareForDB() {
	u.LocationJSON = marshalOrEmpty(u.Location)
}

// PrepareForAPI unmarshals the stored JSON string for API responses.
func (u *User) PrepareForAPI() {
	if u.LocationJSON != "" {
		var loc Location
		if err := json.Unmarshal([]byte(u.LocationJSON), &loc); err == nil {
			u.Location = &loc
		}
	}
}

// marshalOrEmpty returns the JSON encoding of v, or "" when v is a nil pointer.
func marshalOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return ""
	}
	return string(data)
}
