package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SravanamCharan20/Bites/internal/database"
	"github.com/SravanamCharan20/Bites/internal/models"
)

func createTestUser(t *testing.T, db *sql.DB, username, email string) models.User {
	t.Helper()
	user, err := NewUserService(db).CreateUser(username, email, "pw", nil)
	require.NoError(t, err)
	return user
}

func testListing(email string) models.Donor {
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Donor{
		Name:          "Alice",
		Email:         email,
		ContactNumber: "9876543210",
		Address:       &models.Address{City: "Pune", State: "MH", Country: "IN"},
		FoodItems: []models.FoodItem{
			{Type: "cooked", Name: "Rice", Quantity: "5", Unit: "kg"},
		},
		AvailableUntil: &expiry,
	}
}

func TestCreateListingUnregisteredEmail(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)

	_, err := svc.CreateListing(testListing("ghost@x.com"))
	assert.ErrorIs(t, err, ErrValidation)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM donors").Scan(&count))
	assert.Equal(t, 0, count, "no donor record may be persisted")
}

func TestCreateListingAndGet(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)
	user := createTestUser(t, db, "alice", "a@x.com")

	saved, err := svc.CreateListing(testListing("a@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, user.ID, saved.UserID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := svc.GetDonorByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.Address)
	assert.Equal(t, "Pune", got.Address.City)
	require.Len(t, got.FoodItems, 1)
	assert.Equal(t, "Rice", got.FoodItems[0].Name)
	require.NotNil(t, got.AvailableUntil)
}

func TestCreateListingMissingFields(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)
	createTestUser(t, db, "alice", "a@x.com")

	listing := testListing("a@x.com")
	listing.ContactNumber = ""
	_, err := svc.CreateListing(listing)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetDonorByIDMissing(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)

	_, err := svc.GetDonorByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDonor(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)
	user := createTestUser(t, db, "alice", "a@x.com")

	saved, err := svc.CreateListing(testListing("a@x.com"))
	require.NoError(t, err)

	update := testListing("a@x.com")
	update.Name = "Alice Updated"
	update.FoodItems = append(update.FoodItems, models.FoodItem{Type: "raw", Name: "Wheat", Quantity: "2", Unit: "kg"})

	updated, err := svc.UpdateDonor(saved.ID, update)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, user.ID, updated.UserID, "owner survives a full-document update")
	assert.Equal(t, "Alice Updated", updated.Name)
	assert.Len(t, updated.FoodItems, 2)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
}

func TestUpdateDonorMissing(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)

	_, err := svc.UpdateDonor("nope", testListing("a@x.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDonationsByUser(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)
	user := createTestUser(t, db, "alice", "a@x.com")
	createTestUser(t, db, "bob", "b@x.com")

	_, err := svc.CreateListing(testListing("a@x.com"))
	require.NoError(t, err)

	mine, err := svc.GetDonationsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	// An owner with no listings gets an empty slice, not an error.
	none, err := svc.GetDonationsByUser("someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExpireListingsMarksOnce(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewDonorService(db)
	createTestUser(t, db, "alice", "a@x.com")

	past := time.Now().UTC().Add(-time.Hour)
	listing := testListing("a@x.com")
	listing.AvailableUntil = &past
	saved, err := svc.CreateListing(listing)
	require.NoError(t, err)

	fresh := testListing("a@x.com")
	_, err = svc.CreateListing(fresh)
	require.NoError(t, err)

	expired, err := svc.ExpireListings(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, saved.ID, expired[0].ID)

	// A second sweep must not report the same listing again.
	expired, err = svc.ExpireListings(time.Now())
	require.NoError(t, err)
	assert.Empty(t, expired)
}
