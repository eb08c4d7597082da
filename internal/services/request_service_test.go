package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SravanamCharan20/Bites/internal/database"
	"github.com/SravanamCharan20/Bites/internal/models"
)

// fakeNotifier records delivery attempts and can be told to fail.
type fakeNotifier struct {
	sent []string // "<phone>|<message>"
	err  error
}

func (f *fakeNotifier) SendSMS(ctx context.Context, phoneNumber, message string) error {
	f.sent = append(f.sent, phoneNumber+"|"+message)
	return f.err
}

func testRequest(donorID string) models.Request {
	return models.Request{
		DonorID:       donorID,
		RequesterName: "Bob",
		ContactNumber: "9876543210",
		Address:       &models.Address{City: "Pune", State: "MH"},
		Description:   "for the shelter",
	}
}

func setupRequestTest(t *testing.T) (*RequestService, *fakeNotifier, models.User, models.Donor) {
	t.Helper()
	db := database.NewTestDB(t)
	owner := createTestUser(t, db, "alice", "a@x.com")
	donor, err := NewDonorService(db).CreateListing(testListing("a@x.com"))
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	svc := NewRequestService(db, notifier, NewEventService(db, nil))
	return svc, notifier, owner, donor
}

func TestSubmitRequestMissingFields(t *testing.T) {
	svc, _, _, donor := setupRequestTest(t)

	req := testRequest(donor.ID)
	req.Address = nil
	_, err := svc.SubmitRequest(req)
	assert.ErrorIs(t, err, ErrValidation)

	req = testRequest(donor.ID)
	req.RequesterName = ""
	_, err = svc.SubmitRequest(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitRequestUnknownDonor(t *testing.T) {
	svc, _, _, _ := setupRequestTest(t)

	_, err := svc.SubmitRequest(testRequest("no-such-donor"))
	assert.ErrorIs(t, err, ErrNotFound)

	requests, err := svc.GetRequestsForUser("anyone")
	require.NoError(t, err)
	assert.Empty(t, requests, "no request record may be created")
}

func TestSubmitRequestCreatesPending(t *testing.T) {
	svc, _, owner, donor := setupRequestTest(t)

	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, owner.ID, created.UserID, "owner is copied from the listing")
	assert.Equal(t, models.NotificationNone, created.NotificationStatus)

	forOwner, err := svc.GetRequestsForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, forOwner, 1)
	assert.Equal(t, created.ID, forOwner[0].ID)
}

func TestUpdateStatusAccepted(t *testing.T) {
	svc, notifier, _, donor := setupRequestTest(t)
	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.Equal(t, models.NotificationSent, updated.NotificationStatus)

	require.Len(t, notifier.sent, 1)
	assert.True(t, strings.HasPrefix(notifier.sent[0], "9876543210|"))
	assert.Contains(t, notifier.sent[0], "accepted")
	assert.Contains(t, notifier.sent[0], "Bob")
}

func TestUpdateStatusRepeatIsIdempotent(t *testing.T) {
	svc, notifier, _, donor := setupRequestTest(t)
	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, models.StatusAccepted)
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, updated.Status)
	// One attempt per call, no more.
	assert.Len(t, notifier.sent, 2)
}

func TestUpdateStatusTerminalTransitionRejected(t *testing.T) {
	svc, notifier, _, donor := setupRequestTest(t)
	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, models.StatusRejected)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, models.StatusAccepted)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetRequestByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status, "terminal state must be unchanged")
	assert.Len(t, notifier.sent, 1)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc, notifier, _, donor := setupRequestTest(t)
	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "Maybe")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetRequestByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, notifier.sent)
}

func TestUpdateStatusMissingRequest(t *testing.T) {
	svc, _, _, _ := setupRequestTest(t)

	_, err := svc.UpdateStatus(context.Background(), "no-such-request", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusSwallowsNotifierFailure(t *testing.T) {
	svc, notifier, _, donor := setupRequestTest(t)
	notifier.err = errors.New("provider down")

	created, err := svc.SubmitRequest(testRequest(donor.ID))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, models.StatusAccepted)
	require.NoError(t, err, "a delivery failure must not fail the transition")
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.Equal(t, models.NotificationFailed, updated.NotificationStatus)
}
