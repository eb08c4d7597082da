package models

import (
	"encoding/json"
	"time"
)

// Request lifecycle states. Pending is the initial state; Accepted and
// Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the recognized request states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// Delivery outcomes of the SMS notification attempted on a status change.
const (
	NotificationNone   = "none"
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Request is a recipient's claim against a donation listing. UserID is the
// listing owner's ID, copied from the donor record at submission time so
// owners can list every request against any of their listings.
type Request struct {
	ID            string   `json:"id"`
	DonorID       string   `json:"donorId"`
	UserID        string   `json:"userId"`
	RequesterName string   `json:"requesterName"`
	ContactNumber string   `json:"contactNumber"`
	Address       *Address `json:"address,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Description   string   `json:"description,omitempty"`

	Status             string `json:"status"`
	NotificationStatus string `json:"notificationStatus"`

	AddressJSON string `json:"-"` // Stored as JSON text

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrepareForDB marshals the nested address into its JSON string form before saving.
func (r *Request) PrepareForDB() {
	r.AddressJSON = marshalOrEmpty(r.Address)
}

// PrepareForAPI unmarshals the stored JSON string for API responses.
func (r *Request) PrepareForAPI() {
	if r.AddressJSON != "" {
		var addr Address
		if err := json.Unmarshal([]byte(r.AddressJSON), &addr); err == nil {
			r.Address = &addr
		}
	}
}
