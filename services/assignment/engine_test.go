package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewly/models"
)

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo(seed ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: map[string]*models.Booking{}}
	for _, b := range seed {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) (string, error) {
	f.bookings[b.ID] = b
	return b.ID, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return models.ErrNotFound
	}
	copy := *b
	f.bookings[b.ID] = &copy
	return nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id string) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByStaffAndDate(ctx context.Context, staffID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.StaffID == staffID && b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindOverlappingCommitment(ctx context.Context, staffID string, w models.SlotWindow, excludeID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == excludeID || b.StaffID != staffID {
			continue
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			continue
		}
		if b.Window().Overlaps(w) {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

// fakeResolver serves fixed open intervals per staff member.
type fakeResolver struct {
	intervals map[string][]models.OpenInterval
}

func (f *fakeResolver) Resolve(ctx context.Context, staffID, date string) ([]models.OpenInterval, error) {
	return f.intervals[staffID], nil
}

// fakeLocker is an in-process Locker.
type fakeLocker struct {
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key string) error {
	delete(f.held, key)
	return nil
}

func pendingBooking(id string) *models.Booking {
	return &models.Booking{
		ID:         id,
		ServiceID:  "svc-1",
		CustomerID: "cust-1",
		TimeSlotID: "slot-1",
		Date:       "2026-03-02",
		Start:      600,
		End:        660,
		Status:     models.BookingPending,
	}
}

func newEngine(repo *fakeBookingRepo, intervals map[string][]models.OpenInterval) *DefaultEngine {
	return &DefaultEngine{
		Bookings: repo,
		Resolver: &fakeResolver{intervals: intervals},
		Locker:   newFakeLocker(),
	}
}

func TestAssignSuccess(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1"))
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	booking, err := engine.Assign(context.Background(), "b1", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", booking.StaffID)

	stored, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", stored.StaffID)
}

func TestAssignSameStaffIsNoOp(t *testing.T) {
	b := pendingBooking("b1")
	b.StaffID = "staff-1"
	repo := newFakeBookingRepo(b)
	// No availability at all: the no-op path must not validate.
	engine := newEngine(repo, nil)

	booking, err := engine.Assign(context.Background(), "b1", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", booking.StaffID)
}

func TestAssignStaffNotAvailable(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1"))
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 620}}, // does not cover 600-660
	})

	_, err := engine.Assign(context.Background(), "b1", "staff-1")
	var unavail *models.StaffUnavailableError
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, "staff-1", unavail.StaffID)
}

func TestAssignStaffConflict(t *testing.T) {
	other := pendingBooking("b2")
	other.StaffID = "staff-1"
	other.Status = models.BookingConfirmed
	other.Start, other.End = 630, 690 // overlaps 600-660

	repo := newFakeBookingRepo(pendingBooking("b1"), other)
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	_, err := engine.Assign(context.Background(), "b1", "staff-1")
	var conflict *models.StaffConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "b2", conflict.ConflictBookingID)
}

func TestAssignPendingCommitmentConflicts(t *testing.T) {
	// The staff edge lands while b2 is still PENDING; the window must be
	// blocked before any confirmation happens.
	other := pendingBooking("b2")
	other.StaffID = "staff-1"
	other.Start, other.End = 630, 690

	repo := newFakeBookingRepo(pendingBooking("b1"), other)
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	_, err := engine.Assign(context.Background(), "b1", "staff-1")
	var conflict *models.StaffConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "b2", conflict.ConflictBookingID)
}

func TestAssignAdjacentBookingIsNoConflict(t *testing.T) {
	other := pendingBooking("b2")
	other.StaffID = "staff-1"
	other.Status = models.BookingConfirmed
	other.Start, other.End = 660, 720 // touches 600-660 without overlap

	repo := newFakeBookingRepo(pendingBooking("b1"), other)
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	_, err := engine.Assign(context.Background(), "b1", "staff-1")
	assert.NoError(t, err)
}

func TestAssignTerminalBookingRejected(t *testing.T) {
	b := pendingBooking("b1")
	b.Status = models.BookingCancelled
	repo := newFakeBookingRepo(b)
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	_, err := engine.Assign(context.Background(), "b1", "staff-1")
	var trans *models.InvalidTransitionError
	require.ErrorAs(t, err, &trans)
	assert.Equal(t, models.BookingCancelled, trans.Current)
}

func TestUnassignClearsStaff(t *testing.T) {
	b := pendingBooking("b1")
	b.StaffID = "staff-1"
	repo := newFakeBookingRepo(b)
	engine := newEngine(repo, nil)

	booking, err := engine.Unassign(context.Background(), "b1")
	require.NoError(t, err)
	assert.Empty(t, booking.StaffID)
}

func TestValidateStaffExcludesOwnBooking(t *testing.T) {
	b := pendingBooking("b1")
	b.StaffID = "staff-1"
	b.Status = models.BookingConfirmed
	repo := newFakeBookingRepo(b)
	engine := newEngine(repo, map[string][]models.OpenInterval{
		"staff-1": {{Start: 540, End: 1020}},
	})

	err := engine.ValidateStaff(context.Background(), "staff-1", b.Window(), "b1")
	assert.NoError(t, err)
}
