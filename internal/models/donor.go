package models

import (
	"encoding/json"
	"time"
)

// Address is a structured postal address. Every field is optional.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// FoodItem is a single entry in a donation listing. It is embedded in its
// parent Donor and has no standalone lifecycle.
type FoodItem struct {
	Type       string     `json:"type,omitempty"`
	Name       string     `json:"name,omitempty"`
	Quantity   string     `json:"quantity,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// Donor is a food-donation listing submitted by a registered user.
type Donor struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`

	Address        *Address   `json:"address,omitempty"`
	Location       *Location  `json:"location,omitempty"`
	FoodItems      []FoodItem `json:"foodItems"`
	AvailableUntil *time.Time `json:"availableUntil,omitempty"`

	// Stored as JSON text columns
	AddressJSON   string `json:"-"`
	LocationJSON  string `json:"-"`
	FoodItemsJSON string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrepareForDB marshals the nested documents into their JSON string forms before saving.
func (d *Donor) PrepareForDB() {
	d.AddressJSON = marshalOrEmpty(d.Address)
	d.LocationJSON = marshalOrEmpty(d.Location)
	if d.FoodItems != nil {
		d.FoodItemsJSON = marshalOrEmpty(d.FoodItems)
	} else {
		d.FoodItemsJSON = ""
	}
}

// PrepareForAPI unmarshals the stored JSON strings for API responses.
func (d *Donor) PrepareForAPI() {
	if d.AddressJSON != "" {
		var addr Address
		if err := json.Unmarshal([]byte(d.AddressJSON), &addr); err == nil {
			d.Address = &addr
		}
	}
	if d.LocationJSON != "" {
		var loc Location
		if err := json.Unmarshal([]byte(d.LocationJSON), &loc); err == nil {
			d.Location = &loc
		}
	}
	if d.FoodItemsJSON != "" {
		var items []FoodItem
		if err := json.Unmarshal([]byte(d.FoodItemsJSON), &items); err == nil {
			d.FoodItems = items
		}
	}
	if d.FoodItems == nil {
		d.FoodItems = []FoodItem{}
	}
}
