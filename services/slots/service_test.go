package slots

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewly/config"
	"crewly/models"
)

// fakeSlotRepo records generated slots keyed by (serviceId, date, start)
// the way the unique index does.
type fakeSlotRepo struct {
	slots map[string]*models.TimeSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[string]*models.TimeSlot{}}
}

func slotKey(s *models.TimeSlot) string {
	return fmt.Sprintf("%s|%s|%d", s.ServiceID, s.Date, s.Start)
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) (string, error) {
	f.slots[slotKey(slot)] = slot
	return slot.ID, nil
}

func (f *fakeSlotRepo) UpsertGenerated(ctx context.Context, slots []models.TimeSlot) (int, error) {
	created := 0
	for i := range slots {
		s := slots[i]
		key := slotKey(&s)
		if _, exists := f.slots[key]; exists {
			continue
		}
		f.slots[key] = &s
		created++
	}
	return created, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	for _, s := range f.slots {
		if s.ID == slotID {
			return s, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSlotRepo) ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.Date == date {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListAvailable(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.Date == date && s.Bookable() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) Book(ctx context.Context, slotID string) error   { return nil }
func (f *fakeSlotRepo) Unbook(ctx context.Context, slotID string) error { return nil }

func (f *fakeSlotRepo) DeleteByID(ctx context.Context, slotID string) error { return nil }

func (f *fakeSlotRepo) SetBlocked(ctx context.Context, slotID string, blocked bool, reason string, force bool) error {
	return nil
}

func (f *fakeSlotRepo) UpdateCapacity(ctx context.Context, slotID string, newCapacity int) error {
	return nil
}

func setupConfig() {
	config.AppConfig.BusinessDayStart = 540
	config.AppConfig.BusinessDayEnd = 1020
	config.AppConfig.SlotHorizonDays = 90
	config.AppConfig.DefaultMaxCapacity = 1
}

func TestGenerateTilesBusinessHours(t *testing.T) {
	setupConfig()
	repo := newFakeSlotRepo()
	svc := &DefaultService{Repo: repo}

	created, err := svc.Generate(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: "svc-1",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-02",
		Duration:  60,
	})
	require.NoError(t, err)
	// 9:00-17:00 tiled hourly is eight slots.
	assert.Equal(t, 8, created)

	list, err := repo.ListByServiceAndDate(context.Background(), "svc-1", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, list, 8)
	for _, s := range list {
		assert.Equal(t, 60, s.End-s.Start)
		assert.Equal(t, 1, s.MaxCapacity)
		assert.GreaterOrEqual(t, s.Start, 540)
		assert.LessOrEqual(t, s.End, 1020)
	}
}

func TestGeneratePartialSlotDropped(t *testing.T) {
	setupConfig()
	repo := newFakeSlotRepo()
	svc := &DefaultService{Repo: repo}

	created, err := svc.Generate(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: "svc-1",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-02",
		Duration:  90,
		DayStart:  540,
		DayEnd:    1020, // 480 minutes holds five 90-minute slots, 30 left over
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created)
}

func TestGenerateIdempotent(t *testing.T) {
	setupConfig()
	repo := newFakeSlotRepo()
	svc := &DefaultService{Repo: repo}
	req := &models.GenerateSlotsRequest{
		ServiceID: "svc-1",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-03",
		Duration:  60,
	}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 16, first)

	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestGenerateInvalidRanges(t *testing.T) {
	setupConfig()
	svc := &DefaultService{Repo: newFakeSlotRepo()}

	cases := []struct {
		name string
		req  models.GenerateSlotsRequest
	}{
		{"zero duration", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 0}},
		{"negative duration", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: -30}},
		{"bad start date", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "03/02/2026", EndDate: "2026-03-02", Duration: 60}},
		{"end before start", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "2026-03-05", EndDate: "2026-03-02", Duration: 60}},
		{"beyond horizon", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "2026-03-02", EndDate: "2026-09-02", Duration: 60}},
		{"inverted day window", models.GenerateSlotsRequest{ServiceID: "s", StartDate: "2026-03-02", EndDate: "2026-03-02", Duration: 60, DayStart: 1020, DayEnd: 540}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), &tc.req)
			var rangeErr *models.InvalidRangeError
			assert.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestUpdateCapacityRejectsNonPositive(t *testing.T) {
	setupConfig()
	svc := &DefaultService{Repo: newFakeSlotRepo()}

	err := svc.UpdateCapacity(context.Background(), "slot-1", 0)
	var rangeErr *models.InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
}
