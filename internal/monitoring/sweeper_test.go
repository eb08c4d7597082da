package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SravanamCharan20/Bites/internal/models"
)

// stubDonorService hands out its expired listings on the first sweep only,
// mirroring how the store marks listings so they are returned at most once.
type stubDonorService struct {
	expired []models.Donor
	sweeps  int
}

func (f *stubDonorService) ExpireListings(now time.Time) ([]models.Donor, error) {
	f.sweeps++
	if f.sweeps == 1 {
		return f.expired, nil
	}
	return nil, nil
}

func (f *stubDonorService) CreateListing(donor models.Donor) (models.Donor, error) {
	return models.Donor{}, nil
}

func (f *stubDonorService) GetAllDonors() ([]models.Donor, error) { return nil, nil }

func (f *stubDonorService) GetDonorByID(id string) (models.Donor, error) {
	return models.Donor{}, nil
}

func (f *stubDonorService) UpdateDonor(id string, donor models.Donor) (models.Donor, error) {
	return models.Donor{}, nil
}

func (f *stubDonorService) GetDonationsByUser(userID string) ([]models.Donor, error) {
	return nil, nil
}

type recordedEvent struct {
	eventType string
	level     string
	message   string
	userID    *string
}

type stubEventService struct {
	events []recordedEvent
}

func (f *stubEventService) CreateEvent(eventType, level, message string, userID *string) error {
	f.events = append(f.events, recordedEvent{eventType, level, message, userID})
	return nil
}

func (f *stubEventService) GetRecentEvents(limit int) ([]models.Event, error) { return nil, nil }

func TestSweepEmitsOneEventPerExpiredListing(t *testing.T) {
	donorSvc := &stubDonorService{expired: []models.Donor{
		{ID: "d1", Name: "Leftover bread", UserID: "owner-1"},
		{ID: "d2", Name: "Rice batch", UserID: "owner-2"},
	}}
	eventSvc := &stubEventService{}

	sweeper, err := NewSweeper(donorSvc, eventSvc, "@every 15m")
	require.NoError(t, err)

	sweeper.sweep()

	require.Len(t, eventSvc.events, 2)
	for i, ev := range eventSvc.events {
		assert.Equal(t, "listing.expired", ev.eventType)
		assert.Equal(t, "warn", ev.level)
		require.NotNil(t, ev.userID)
		assert.Equal(t, donorSvc.expired[i].UserID, *ev.userID)
		assert.Contains(t, ev.message, donorSvc.expired[i].Name)
	}

	// A second pass finds nothing new and raises nothing new.
	sweeper.sweep()
	assert.Len(t, eventSvc.events, 2)
}

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	_, err := NewSweeper(&stubDonorService{}, &stubEventService{}, "not-a-schedule")
	assert.Error(t, err)
}
