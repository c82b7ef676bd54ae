package jobcard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewly/models"
	"crewly/services/assignment"
	"crewly/services/booking"
)

// The scenario tests wire the real lifecycle, workflow and assignment
// engine together over in-memory storage, so the cross-signals (card
// completion closing the booking, booking cancellation killing the
// card) run the same code paths as production.

type memBookingRepo struct {
	bookings map[string]*models.Booking
	nextID   int
}

func (m *memBookingRepo) Create(ctx context.Context, b *models.Booking) (string, error) {
	m.nextID++
	b.ID = fmt.Sprintf("bk-%d", m.nextID)
	cp := *b
	m.bookings[b.ID] = &cp
	return b.ID, nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookingRepo) Delete(ctx context.Context, id string) error {
	delete(m.bookings, id)
	return nil
}

func (m *memBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return nil, nil
}

func (m *memBookingRepo) ListByStaffAndDate(ctx context.Context, staffID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.StaffID == staffID && b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingRepo) FindOverlappingCommitment(ctx context.Context, staffID string, w models.SlotWindow, excludeID string) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == excludeID || b.StaffID != staffID {
			continue
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			continue
		}
		if b.Window().Overlaps(w) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

type memSlotRepo struct {
	slots map[string]*models.TimeSlot
}

func (m *memSlotRepo) Create(ctx context.Context, s *models.TimeSlot) (string, error) { return "", nil }
func (m *memSlotRepo) UpsertGenerated(ctx context.Context, s []models.TimeSlot) (int, error) {
	return 0, nil
}

func (m *memSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	s, ok := m.slots[slotID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSlotRepo) ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return nil, nil
}

func (m *memSlotRepo) ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	return nil, nil
}

func (m *memSlotRepo) Book(ctx context.Context, slotID string) error {
	s, ok := m.slots[slotID]
	if !ok {
		return models.ErrNotFound
	}
	if !s.Bookable() {
		return &models.SlotUnavailableError{SlotID: slotID, Reason: "slot is fully booked"}
	}
	s.BookedCount++
	return nil
}

func (m *memSlotRepo) Unbook(ctx context.Context, slotID string) error {
	if s, ok := m.slots[slotID]; ok && s.BookedCount > 0 {
		s.BookedCount--
	}
	return nil
}

func (m *memSlotRepo) SetBlocked(ctx context.Context, slotID string, blocked bool, reason string, force bool) error {
	return nil
}

func (m *memSlotRepo) UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error {
	return nil
}

func (m *memSlotRepo) DeleteByID(ctx context.Context, slotID string) error { return nil }

type fullDayResolver struct{}

func (fullDayResolver) Resolve(ctx context.Context, staffID, date string) ([]models.OpenInterval, error) {
	return []models.OpenInterval{{Start: 540, End: 1020}}, nil
}

type localLocker struct {
	held map[string]bool
}

func (l *localLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *localLocker) Unlock(ctx context.Context, key string) error {
	delete(l.held, key)
	return nil
}

type nopCapture struct{}

func (nopCapture) CaptureBookingPayment(ctx context.Context, b *models.Booking) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	return nil
}

type system struct {
	lifecycle *booking.DefaultLifecycle
	workflow  *DefaultWorkflow
	engine    *assignment.DefaultEngine
	slots     *memSlotRepo
	bookings  *memBookingRepo
}

func newSystem() *system {
	bookings := &memBookingRepo{bookings: map[string]*models.Booking{}}
	slots := &memSlotRepo{slots: map[string]*models.TimeSlot{
		"slot-13": {
			ID:          "slot-13",
			ServiceID:   "svc-1",
			Date:        "2026-03-02",
			Start:       780,
			End:         840,
			MaxCapacity: 1,
		},
	}}
	engine := &assignment.DefaultEngine{
		Bookings: bookings,
		Resolver: fullDayResolver{},
		Locker:   &localLocker{held: map[string]bool{}},
	}
	lifecycle := &booking.DefaultLifecycle{
		Bookings: bookings,
		Slots:    slots,
		Engine:   engine,
		Payments: nopCapture{},
		Events:   nopPublisher{},
	}
	workflow := &DefaultWorkflow{
		Cards:     newFakeCardRepo(),
		Bookings:  bookings,
		Engine:    engine,
		Completer: lifecycle,
	}
	lifecycle.JobCards = workflow
	return &system{lifecycle: lifecycle, workflow: workflow, engine: engine, slots: slots, bookings: bookings}
}

func TestBookingFulfilledThroughJobCard(t *testing.T) {
	sys := newSystem()
	ctx := context.Background()

	b, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID:  "svc-1",
		TimeSlotID: "slot-13",
		CustomerID: "cust-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, 1, sys.slots.slots["slot-13"].BookedCount)

	b, err = sys.lifecycle.Confirm(ctx, b.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	card, err := sys.workflow.Create(ctx, b.ID, &models.CreateJobCardRequest{
		Steps: []string{"prep", "work", "inspect"},
	})
	require.NoError(t, err)
	_, err = sys.workflow.Start(ctx, card.ID)
	require.NoError(t, err)

	_, err = sys.workflow.CompleteStep(ctx, card.ID, 0)
	require.NoError(t, err)
	_, err = sys.workflow.CompleteStep(ctx, card.ID, 2)
	var outOfOrder *models.OutOfOrderStepError
	require.ErrorAs(t, err, &outOfOrder)

	_, err = sys.workflow.CompleteStep(ctx, card.ID, 1)
	require.NoError(t, err)
	_, err = sys.workflow.CompleteStep(ctx, card.ID, 2)
	require.NoError(t, err)

	card, err = sys.workflow.Complete(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, card.Status)

	done, err := sys.lifecycle.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, done.Status)
}

func TestCancelBookingKillsInProgressCard(t *testing.T) {
	sys := newSystem()
	ctx := context.Background()

	b, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID:  "svc-1",
		TimeSlotID: "slot-13",
		CustomerID: "cust-1",
	})
	require.NoError(t, err)
	b, err = sys.lifecycle.Confirm(ctx, b.ID, "staff-1")
	require.NoError(t, err)

	card, err := sys.workflow.Create(ctx, b.ID, &models.CreateJobCardRequest{Steps: []string{"work"}})
	require.NoError(t, err)
	_, err = sys.workflow.Start(ctx, card.ID)
	require.NoError(t, err)

	cancelled, err := sys.lifecycle.Cancel(ctx, b.ID, "customer request")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Empty(t, cancelled.StaffID)
	assert.Equal(t, 0, sys.slots.slots["slot-13"].BookedCount)

	card, err = sys.workflow.Get(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCancelled, card.Status)

	// The freed window is assignable again.
	b2, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID:  "svc-1",
		TimeSlotID: "slot-13",
		CustomerID: "cust-2",
	})
	require.NoError(t, err)
	_, err = sys.lifecycle.Confirm(ctx, b2.ID, "staff-1")
	assert.NoError(t, err)
}

func TestPendingAssignmentBlocksOverlappingConfirm(t *testing.T) {
	sys := newSystem()
	sys.slots.slots["slot-1330"] = &models.TimeSlot{
		ID:          "slot-1330",
		ServiceID:   "svc-1",
		Date:        "2026-03-02",
		Start:       810,
		End:         870,
		MaxCapacity: 1,
	}
	ctx := context.Background()

	a, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID: "svc-1", TimeSlotID: "slot-13", CustomerID: "cust-1",
	})
	require.NoError(t, err)
	// The staff edge is committed while a is still PENDING.
	a, err = sys.engine.Assign(ctx, a.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, a.Status)

	b, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID: "svc-1", TimeSlotID: "slot-1330", CustomerID: "cust-2",
	})
	require.NoError(t, err)
	_, err = sys.lifecycle.Confirm(ctx, b.ID, "staff-1")
	var conflict *models.StaffConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, a.ID, conflict.ConflictBookingID)

	// The committed assignment itself still confirms.
	confirmed, err := sys.lifecycle.Confirm(ctx, a.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
}

func TestOverlappingAssignmentConflicts(t *testing.T) {
	sys := newSystem()
	sys.slots.slots["slot-1330"] = &models.TimeSlot{
		ID:          "slot-1330",
		ServiceID:   "svc-1",
		Date:        "2026-03-02",
		Start:       810,
		End:         870,
		MaxCapacity: 1,
	}
	ctx := context.Background()

	a, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID: "svc-1", TimeSlotID: "slot-13", CustomerID: "cust-1",
	})
	require.NoError(t, err)
	_, err = sys.lifecycle.Confirm(ctx, a.ID, "staff-1")
	require.NoError(t, err)

	b, err := sys.lifecycle.Create(ctx, &models.CreateBookingRequest{
		ServiceID: "svc-1", TimeSlotID: "slot-1330", CustomerID: "cust-2",
	})
	require.NoError(t, err)
	_, err = sys.lifecycle.Confirm(ctx, b.ID, "staff-1")
	var conflict *models.StaffConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, a.ID, conflict.ConflictBookingID)
}
