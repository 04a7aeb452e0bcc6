package model

import "fmt"

// Slot schedule shared by client and server: half-hour slots 09:00..17:00
// inclusive (17 slots). Not persisted, purely a schedule constant.
const (
	SlotStartHour   = 9
	SlotEndHour     = 17
	SlotStepMinutes = 30
)

// DailySlots returns the fixed list of "HH:MM" slot labels for any day.
func DailySlots() []string {
	var out []string
	for h := SlotStartHour; h <= SlotEndHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
		if h < SlotEndHour {
			out = append(out, fmt.Sprintf("%02d:%02d", h, SlotStepMinutes))
		}
	}
	return out
}

// Availability is the response of GET /availability. Schedule carries the
// full slot list so clients can render the day grid without hardcoding it.
type Availability struct {
	Date           string   `json:"date"`
	Schedule       []string `json:"schedule"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}
