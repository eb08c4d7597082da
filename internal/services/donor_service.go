package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SravanamCharan20/Bites/internal/models"
)

// DonorServiceProvider defines the interface for donation listing services.
type DonorServiceProvider interface {
	CreateListing(donor models.Donor) (models.Donor, error)
	GetAllDonors() ([]models.Donor, error)
	GetDonorByID(id string) (models.Donor, error)
	UpdateDonor(id string, donor models.Donor) (models.Donor, error)
	GetDonationsByUser(userID string) ([]models.Donor, error)
	ExpireListings(now time.Time) ([]models.Donor, error)
}

// ErrEmailNotRegistered marks a listing submitted under an email no account
// owns. It is a validation failure with its own user-facing message.
var ErrEmailNotRegistered = fmt.Errorf("email is not registered: %w", ErrValidation)

// DonorService provides business logic for donation listings.
type DonorService struct {
	db *sql.DB
}

// NewDonorService creates a new DonorService.
func NewDonorService(db *sql.DB) *DonorService {
	return &DonorService{db: db}
}

const donorColumns = "id, user_id, name, email, contact_number, address_json, location_json, food_items_json, available_until, created_at, updated_at"

// CreateListing persists a new donation listing. The submitted email must
// belong to a registered user; the listing is attached to that account.
func (s *DonorService) CreateListing(donor models.Donor) (models.Donor, error) {
	if err := validateListing(donor); err != nil {
		return models.Donor{}, err
	}

	var userID string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", donor.Email).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Donor{}, ErrEmailNotRegistered
		}
		return models.Donor{}, err
	}

	now := time.Now().UTC()
	donor.ID = uuid.New().String()
	donor.UserID = userID
	donor.CreatedAt = now
	donor.UpdatedAt = now
	donor.PrepareForDB()

	stmt, err := s.db.Prepare("INSERT INTO donors(" + donorColumns + ") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Donor{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		donor.ID, donor.UserID, donor.Name, donor.Email, donor.ContactNumber,
		donor.AddressJSON, donor.LocationJSON, donor.FoodItemsJSON,
		donor.AvailableUntil, donor.CreatedAt, donor.UpdatedAt,
	)
	if err != nil {
		return models.Donor{}, err
	}

	donor.PrepareForAPI()
	return donor, nil
}

// GetAllDonors retrieves every donation listing. Order is not part of the
// contract.
func (s *DonorService) GetAllDonors() ([]models.Donor, error) {
	rows, err := s.db.Query("SELECT " + donorColumns + " FROM donors")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors := []models.Donor{}
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, donor)
	}
	return donors, rows.Err()
}

// GetDonorByID retrieves a single listing by its ID.
func (s *DonorService) GetDonorByID(id string) (models.Donor, error) {
	row := s.db.QueryRow("SELECT "+donorColumns+" FROM donors WHERE id = ?", id)
	donor, err := scanDonor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Donor{}, fmt.Errorf("donor with ID %s: %w", id, ErrNotFound)
		}
		return models.Donor{}, err
	}
	return donor, nil
}

// UpdateDonor replaces the mutable fields of a listing with the submitted
// document. Owner, ID and creation time are kept; validation is re-applied.
func (s *DonorService) UpdateDonor(id string, donor models.Donor) (models.Donor, error) {
	existing, err := s.GetDonorByID(id)
	if err != nil {
		return models.Donor{}, err
	}

	if err := validateListing(donor); err != nil {
		return models.Donor{}, err
	}

	donor.ID = existing.ID
	donor.UserID = existing.UserID
	donor.CreatedAt = existing.CreatedAt
	donor.UpdatedAt = time.Now().UTC()
	donor.PrepareForDB()

	stmt, err := s.db.Prepare(`UPDATE donors SET name = ?, email = ?, contact_number = ?,
		address_json = ?, location_json = ?, food_items_json = ?, available_until = ?,
		expiry_notified = 0, updated_at = ? WHERE id = ?`)
	if err != nil {
		return models.Donor{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		donor.Name, donor.Email, donor.ContactNumber,
		donor.AddressJSON, donor.LocationJSON, donor.FoodItemsJSON,
		donor.AvailableUntil, donor.UpdatedAt, id,
	)
	if err != nil {
		return models.Donor{}, err
	}

	return s.GetDonorByID(id)
}

// GetDonationsByUser retrieves all listings owned by the given user. An
// empty result is returned as an empty slice; callers decide what that means.
func (s *DonorService) GetDonationsByUser(userID string) ([]models.Donor, error) {
	rows, err := s.db.Query("SELECT "+donorColumns+" FROM donors WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors := []models.Donor{}
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, donor)
	}
	return donors, rows.Err()
}

// ExpireListings marks listings whose availability window has passed and
// returns them. Each listing is returned at most once until it is updated
// again.
func (s *DonorService) ExpireListings(now time.Time) ([]models.Donor, error) {
	rows, err := s.db.Query("SELECT "+donorColumns+" FROM donors WHERE available_until IS NOT NULL AND available_until < ? AND expiry_notified = 0", now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []models.Donor
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, donor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, donor := range expired {
		if _, err := s.db.Exec("UPDATE donors SET expiry_notified = 1 WHERE id = ?", donor.ID); err != nil {
			return nil, err
		}
	}
	return expired, nil
}

// validateListing applies the field-level requirements shared by create and
// update.
func validateListing(donor models.Donor) error {
	if donor.Name == "" || donor.Email == "" || donor.ContactNumber == "" {
		return fmt.Errorf("name, email, and contact number are required: %w", ErrValidation)
	}
	return nil
}

// scanDonor is a helper to scan a donor from a row or rows object.
func scanDonor(scanner interface{ Scan(...interface{}) error }) (models.Donor, error) {
	var donor models.Donor
	var address, location, foodItems sql.NullString
	var availableUntil sql.NullTime

	err := scanner.Scan(
		&donor.ID, &donor.UserID, &donor.Name, &donor.Email, &donor.ContactNumber,
		&address, &location, &foodItems, &availableUntil,
		&donor.CreatedAt, &donor.UpdatedAt,
	)
	if err != nil {
		return donor, err
	}

	donor.AddressJSON = address.String
	donor.LocationJSON = location.String
	donor.FoodItemsJSON = foodItems.String
	if availableUntil.Valid {
		t := availableUntil.Time
		donor.AvailableUntil = &t
	}

	donor.PrepareForAPI()
	return donor, nil
}
