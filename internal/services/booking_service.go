package services

import (
	"context"
	"errors"
	"time"

	"HomeServicesAPI/internal/model"
)

// ErrBadDate marks a date that is not YYYY-MM-DD.
var ErrBadDate = errors.New("date must be YYYY-MM-DD")

const dateLayout = "2006-01-02"

// BookingStore is the read side of slot occupancy.
type BookingStore interface {
	BookedTimes(ctx context.Context, date time.Time) ([]string, error)
}

type BookingService struct {
	Repo BookingStore
}

func NewBookingService(r BookingStore) *BookingService {
	return &BookingService{Repo: r}
}

// Availability returns which slots of the fixed daily schedule are free and
// which are held by non-cancelled bookings on the given date. Always derived
// live, so cancelled orders release their slot with no extra bookkeeping.
func (s *BookingService) Availability(ctx context.Context, dateStr string) (*model.Availability, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, ErrBadDate
	}

	booked, err := s.Repo.BookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	av := &model.Availability{
		Date:           dateStr,
		Schedule:       model.DailySlots(),
		BookedSlots:    []string{},
		AvailableSlots: []string{},
	}
	for _, slot := range model.DailySlots() {
		if taken[slot] {
			av.BookedSlots = append(av.BookedSlots, slot)
		} else {
			av.AvailableSlots = append(av.AvailableSlots, slot)
		}
	}
	return av, nil
}

// ValidSlot reports whether t is one of the schedule's slot labels.
func ValidSlot(t string) bool {
	for _, slot := range model.DailySlots() {
		if slot == t {
			return true
		}
	}
	return false
}
