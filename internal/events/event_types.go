package events

import (
	"time"

	"github.com/spec-kit/ticket-booking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketBooked          EventType = "ticket_booked"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketDisabled        EventType = "ticket_disabled"
	EventTicketConsumed        EventType = "ticket_consumed"
	EventTicketsImported       EventType = "tickets_imported"
	EventTicketsSaved          EventType = "tickets_saved"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketBookedPayload payload.
type TicketBookedPayload struct {
	EventID  string `json:"event_id"`
	Date     string `json:"date"`
	Priority int    `json:"priority"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority int `json:"old_priority"`
	NewPriority int `json:"new_priority"`
}

// TicketDisabledPayload payload.
type TicketDisabledPayload struct {
	EventID string `json:"event_id"`
	Date    string `json:"date"`
}

// TicketConsumedPayload payload. Position is the 1-based run order.
type TicketConsumedPayload struct {
	EventID  string `json:"event_id"`
	Priority int    `json:"priority"`
	Position int    `json:"position"`
}

// TicketsStoredPayload payload for import and save.
type TicketsStoredPayload struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}
