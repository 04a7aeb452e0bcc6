package services

import (
	"context"
	"testing"
	"time"

	"HomeServicesAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBookingStore implements BookingStore for testing
type mockBookingStore struct {
	booked map[string][]string
	err    error
}

func (m *mockBookingStore) BookedTimes(_ context.Context, date time.Time) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.booked[date.Format("2006-01-02")], nil
}

func TestDailySlots_FixedSchedule(t *testing.T) {
	slots := model.DailySlots()
	assert.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "17:00", slots[16])
}

func TestAvailability_EmptyDay(t *testing.T) {
	svc := NewBookingService(&mockBookingStore{})

	av, err := svc.Availability(context.Background(), "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, model.DailySlots(), av.Schedule)
	assert.Len(t, av.AvailableSlots, 17)
	assert.Empty(t, av.BookedSlots)
}

func TestAvailability_BookedSlotsExcluded(t *testing.T) {
	svc := NewBookingService(&mockBookingStore{
		booked: map[string][]string{"2026-03-01": {"10:00", "14:30"}},
	})

	av, err := svc.Availability(context.Background(), "2026-03-01")
	require.NoError(t, err)
	assert.Len(t, av.AvailableSlots, 15)
	assert.ElementsMatch(t, []string{"10:00", "14:30"}, av.BookedSlots)
	assert.NotContains(t, av.AvailableSlots, "10:00")
}

func TestAvailability_BadDate(t *testing.T) {
	svc := NewBookingService(&mockBookingStore{})
	for _, bad := range []string{"", "01-03-2026", "2026/03/01", "tomorrow"} {
		_, err := svc.Availability(context.Background(), bad)
		assert.ErrorIs(t, err, ErrBadDate)
	}
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("09:00"))
	assert.True(t, ValidSlot("16:30"))
	assert.False(t, ValidSlot("17:30"))
	assert.False(t, ValidSlot("9:00"))
	assert.False(t, ValidSlot(""))
}
