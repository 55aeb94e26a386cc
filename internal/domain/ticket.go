package domain

import (
	"fmt"
	"time"
)

// Ticket is a booking record for one event on one calendar day.
// Date is held at UTC midnight.
type Ticket struct {
	ID       string
	EventID  string
	Username string
	Date     time.Time
	Priority int
}

func (t Ticket) String() string {
	return fmt.Sprintf("Ticket ID: %s, Event ID: %s, Username: %s, Date: %s, Priority: %d",
		t.ID, t.EventID, t.Username, DisplayDate(t.Date), t.Priority)
}

// CompareByDateAndEvent orders tickets by date, then event id, ascending.
func CompareByDateAndEvent(a, b Ticket) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.EventID < b.EventID:
		return -1
	case a.EventID > b.EventID:
		return 1
	default:
		return 0
	}
}

// CompareByPriorityDesc orders tickets with the highest priority first.
func CompareByPriorityDesc(a, b Ticket) int {
	switch {
	case a.Priority > b.Priority:
		return -1
	case a.Priority < b.Priority:
		return 1
	default:
		return 0
	}
}
