package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/SravanamCharan20/Bites/internal/models"
	"github.com/SravanamCharan20/Bites/internal/services"
)

// DonorHandler handles HTTP requests for donation listings.
type DonorHandler struct {
	service services.DonorServiceProvider
	events  services.EventServiceProvider
}

// NewDonorHandler creates a new DonorHandler.
func NewDonorHandler(service services.DonorServiceProvider, events services.EventServiceProvider) *DonorHandler {
	return &DonorHandler{service: service, events: events}
}

// Create handles submission of a new donation listing. The email on the
// payload must belong to a registered user.
func (h *DonorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var donor models.Donor
	if err := json.NewDecoder(r.Body).Decode(&donor); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.service.CreateListing(donor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotRegistered):
			writeMessage(w, http.StatusBadRequest, "Email is not registered. Please sign up.")
		case errors.Is(err, services.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "name, email, and contact number are required")
		default:
			log.Error().Err(err).Str("email", donor.Email).Msg("Failed to create donation")
			writeMessage(w, http.StatusInternalServerError, "Failed to create donation.")
		}
		return
	}

	if h.events != nil {
		h.events.CreateEvent("listing.create", "info", "Donation listing '"+saved.Name+"' published.", &saved.UserID)
	}

	writeJSON(w, http.StatusCreated, saved)
}

// GetAll handles the request to list every available donation.
func (h *DonorHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	donors, err := h.service.GetAllDonors()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch donated food items")
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch donated food items.")
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

// Get handles retrieving a single listing by its ID.
func (h *DonorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	donor, err := h.service.GetDonorByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Donor not found.")
			return
		}
		log.Error().Err(err).Str("donor_id", id).Msg("Failed to fetch donor")
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}

	writeJSON(w, http.StatusOK, donor)
}

// Update handles a full-document update of a listing.
func (h *DonorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var donor models.Donor
	if err := json.NewDecoder(r.Body).Decode(&donor); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.UpdateDonor(id, donor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Donor not found.")
		case errors.Is(err, services.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "name, email, and contact number are required")
		default:
			log.Error().Err(err).Str("donor_id", id).Msg("Failed to update donation")
			writeMessage(w, http.StatusInternalServerError, "Failed to update donation.")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// GetByUser handles listing a user's own donations. An owner with no
// listings gets a 404, matching the documented contract of this route.
func (h *DonorHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	donations, err := h.service.GetDonationsByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user donations")
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch donations.")
		return
	}

	if len(donations) == 0 {
		writeMessage(w, http.StatusNotFound, "No donations found for this user.")
		return
	}

	writeJSON(w, http.StatusOK, donations)
}
