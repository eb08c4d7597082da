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

// RequestHandler handles HTTP requests for food requests and their status.
type RequestHandler struct {
	service services.RequestServiceProvider
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service services.RequestServiceProvider) *RequestHandler {
	return &RequestHandler{service: service}
}

// SubmitPayload defines the structure for request submissions. The requester
// name arrives under the "name" key.
type SubmitPayload struct {
	DonorID       string          `json:"donorId"`
	Name          string          `json:"name"`
	ContactNumber string          `json:"contactNumber"`
	Address       *models.Address `json:"address"`
	Latitude      *float64        `json:"latitude"`
	Longitude     *float64        `json:"longitude"`
	Description   string          `json:"description"`
}

// Submit handles a recipient's request against a listing.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.service.SubmitRequest(models.Request{
		DonorID:       payload.DonorID,
		RequesterName: payload.Name,
		ContactNumber: payload.ContactNumber,
		Address:       payload.Address,
		Latitude:      payload.Latitude,
		Longitude:     payload.Longitude,
		Description:   payload.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "All required fields must be provided.")
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Donor not found.")
		default:
			log.Error().Err(err).Str("donor_id", payload.DonorID).Msg("Failed to submit request")
			writeMessage(w, http.StatusInternalServerError, "Failed to submit request.")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Request submitted successfully.")
}

// GetForOwner handles listing every request made against an owner's listings.
func (h *RequestHandler) GetForOwner(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	requests, err := h.service.GetRequestsForUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch requests")
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// StatusPayload defines the body of a status transition.
type StatusPayload struct {
	Status string `json:"status"`
}

// UpdateStatus handles the status transition of a request and returns the
// updated record. The requester is notified by SMS; delivery problems are
// reflected in the record's notificationStatus, never in the response code.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	var payload StatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.service.UpdateStatus(r.Context(), requestID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Request not found")
		case errors.Is(err, services.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "Invalid status transition")
		default:
			log.Error().Err(err).Str("request_id", requestID).Msg("Failed to update request status")
			writeMessage(w, http.StatusInternalServerError, "Failed to update request status")
		}
		return
	}

	writeJSON(w, http.StatusOK, request)
}
