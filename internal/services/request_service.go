package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SravanamCharan20/Bites/internal/models"
	"github.com/SravanamCharan20/Bites/internal/notify"
)

// notifyTimeout bounds the synchronous SMS attempt after a status write so a
// hung provider call cannot stall the response indefinitely.
const notifyTimeout = 10 * time.Second

// RequestServiceProvider defines the interface for food request services.
type RequestServiceProvider interface {
	SubmitRequest(request models.Request) (models.Request, error)
	GetRequestsForUser(userID string) ([]models.Request, error)
	UpdateStatus(ctx context.Context, requestID, status string) (models.Request, error)
}

// RequestService provides business logic for food requests and their status
// transitions.
type RequestService struct {
	db       *sql.DB
	notifier notify.Notifier
	events   EventServiceProvider
}

// NewRequestService creates a new RequestService.
func NewRequestService(db *sql.DB, notifier notify.Notifier, events EventServiceProvider) *RequestService {
	return &RequestService{db: db, notifier: notifier, events: events}
}

const requestColumns = "id, donor_id, user_id, requester_name, contact_number, address_json, latitude, longitude, description, status, notification_status, created_at, updated_at"

// SubmitRequest creates a Pending request against an existing listing. The
// listing owner's user ID is copied onto the request so the owner can list
// incoming requests across all their listings.
func (s *RequestService) SubmitRequest(request models.Request) (models.Request, error) {
	if request.DonorID == "" || request.RequesterName == "" || request.ContactNumber == "" || request.Address == nil {
		return models.Request{}, fmt.Errorf("donorId, name, contact number, and address are required: %w", ErrValidation)
	}

	var ownerID string
	err := s.db.QueryRow("SELECT user_id FROM donors WHERE id = ?", request.DonorID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Request{}, fmt.Errorf("donor with ID %s: %w", request.DonorID, ErrNotFound)
		}
		return models.Request{}, err
	}

	now := time.Now().UTC()
	request.ID = uuid.New().String()
	request.UserID = ownerID
	request.Status = models.StatusPending
	request.NotificationStatus = models.NotificationNone
	request.CreatedAt = now
	request.UpdatedAt = now
	request.PrepareForDB()

	stmt, err := s.db.Prepare("INSERT INTO requests(" + requestColumns + ") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Request{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		request.ID, request.DonorID, request.UserID, request.RequesterName,
		request.ContactNumber, request.AddressJSON, request.Latitude, request.Longitude,
		request.Description, request.Status, request.NotificationStatus,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return models.Request{}, err
	}

	if s.events != nil {
		msg := fmt.Sprintf("%s requested food from one of your listings.", request.RequesterName)
		s.events.CreateEvent("request.submit", "info", msg, &ownerID)
	}

	request.PrepareForAPI()
	return request, nil
}

// GetRequestsForUser retrieves every request made against the given owner's
// listings.
func (s *RequestService) GetRequestsForUser(userID string) ([]models.Request, error) {
	rows, err := s.db.Query("SELECT "+requestColumns+" FROM requests WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.Request{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// GetRequestByID retrieves a single request.
func (s *RequestService) GetRequestByID(id string) (models.Request, error) {
	row := s.db.QueryRow("SELECT "+requestColumns+" FROM requests WHERE id = ?", id)
	request, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Request{}, fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
		}
		return models.Request{}, err
	}
	return request, nil
}

// UpdateStatus transitions a request and notifies the requester by SMS. Only
// Pending requests may move to Accepted or Rejected; repeating the current
// status is an idempotent no-op that re-attempts the notification at most
// once. The SMS outcome is recorded on the request but a delivery failure
// never fails the transition.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID, status string) (models.Request, error) {
	request, err := s.GetRequestByID(requestID)
	if err != nil {
		return models.Request{}, err
	}

	if !models.ValidStatus(status) {
		return models.Request{}, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	if status != request.Status && request.Status != models.StatusPending {
		return models.Request{}, fmt.Errorf("request is already %s: %w", request.Status, ErrValidation)
	}

	now := time.Now().UTC()
	if _, err := s.db.Exec("UPDATE requests SET status = ?, updated_at = ? WHERE id = ?", status, now, requestID); err != nil {
		return models.Request{}, err
	}
	request.Status = status
	request.UpdatedAt = now

	var message string
	switch status {
	case models.StatusAccepted:
		message = fmt.Sprintf("Hi %s, your food request has been accepted!", request.RequesterName)
	case models.StatusRejected:
		message = fmt.Sprintf("Hi %s, your food request has been rejected.", request.RequesterName)
	default:
		// No notification is defined for other states.
		return request, nil
	}

	notificationStatus := models.NotificationSent
	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.SendSMS(sendCtx, request.ContactNumber, message); err != nil {
		// Deliberately swallowed: the transition stands even when the SMS fails.
		log.Warn().Err(err).Str("request_id", requestID).Msg("Status notification not delivered")
		notificationStatus = models.NotificationFailed
	}

	if _, err := s.db.Exec("UPDATE requests SET notification_status = ? WHERE id = ?", notificationStatus, requestID); err != nil {
		return models.Request{}, err
	}
	request.NotificationStatus = notificationStatus

	if s.events != nil {
		msg := fmt.Sprintf("Request from %s marked %s.", request.RequesterName, status)
		s.events.CreateEvent("request.status", "info", msg, &request.UserID)
	}

	return request, nil
}

// scanRequest is a helper to scan a request from a row or rows object.
func scanRequest(scanner interface{ Scan(...interface{}) error }) (models.Request, error) {
	var request models.Request
	var address, description sql.NullString
	var latitude, longitude sql.NullFloat64

	err := scanner.Scan(
		&request.ID, &request.DonorID, &request.UserID, &request.RequesterName,
		&request.ContactNumber, &address, &latitude, &longitude, &description,
		&request.Status, &request.NotificationStatus, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return request, err
	}

	request.AddressJSON = address.String
	request.Description = description.String
	if latitude.Valid {
		v := latitude.Float64
		request.Latitude = &v
	}
	if longitude.Valid {
		v := longitude.Float64
		request.Longitude = &v
	}

	request.PrepareForAPI()
	return request, nil
}
