package service

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/auth"
	"github.com/spec-kit/ticket-booking/internal/clock"
	"github.com/spec-kit/ticket-booking/internal/domain"
	"github.com/spec-kit/ticket-booking/internal/events"
	"github.com/spec-kit/ticket-booking/internal/repository"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// TicketService coordinates booking workflows over the in-memory collection.
type TicketService struct {
	tickets    repository.TicketRepository
	ids        *IDGenerator
	clock      clock.Clock
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Clock      clock.Clock
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// BookingInput describes a booking request as typed at the prompt.
type BookingInput struct {
	EventID  string
	Date     string
	Priority int
}

// Statistics summarizes the collection.
type Statistics struct {
	Empty         bool
	Total         int
	Today         int
	TopEventID    string
	TopEventCount int
	PerEvent      map[string]int
	PerUser       map[string]int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	repo := deps.TicketRepo
	if repo == nil {
		repo = repository.NewTicketRepository()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := NewIDGenerator(func(id string) bool {
		return repo.Exists(context.Background(), id)
	})
	return &TicketService{
		tickets:    repo,
		ids:        ids,
		clock:      clk,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Import loads persisted tickets into the collection, replacing its contents.
func (s *TicketService) Import(ctx context.Context, source string, tickets []domain.Ticket) error {
	if err := s.tickets.Replace(ctx, tickets); err != nil {
		return err
	}
	s.logger.Info("tickets imported", zap.String("source", source), zap.Int("count", s.tickets.Count(ctx)))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketsImported,
		Payload: events.TicketsStoredPayload{Path: source, Count: len(tickets)},
	})
	return nil
}

// Tickets returns a snapshot of the collection in its current order.
func (s *TicketService) Tickets(ctx context.Context) []domain.Ticket {
	return s.tickets.List(ctx)
}

// MarkSaved records that the collection was persisted.
func (s *TicketService) MarkSaved(ctx context.Context, session *Session, target string, count int) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketsSaved,
		Actor:   actorOf(session),
		Payload: events.TicketsStoredPayload{Path: target, Count: count},
	})
}

// BookTicket books a ticket for the session's user. Regular users always book at priority 0.
func (s *TicketService) BookTicket(ctx context.Context, session *Session, input BookingInput) (*domain.Ticket, error) {
	if _, err := s.authorize(session); err != nil {
		return nil, err
	}
	eventID := strings.TrimSpace(input.EventID)
	if eventID == "" {
		return nil, apperrors.NewValidationError("event id required", nil)
	}
	date, err := domain.ParseDate(strings.TrimSpace(input.Date))
	if err != nil {
		return nil, err
	}
	priority := input.Priority
	if !session.IsAdmin() {
		priority = 0
	}

	ticket := &domain.Ticket{
		ID:       s.ids.Next(),
		EventID:  eventID,
		Username: session.Username,
		Date:     date,
		Priority: priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketBooked,
		TicketID: ticket.ID,
		Actor:    actorOf(session),
		Payload: events.TicketBookedPayload{
			EventID:  ticket.EventID,
			Date:     domain.FormatDate(ticket.Date),
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns every ticket ordered by (date, event id) and keeps the
// collection in that order.
func (s *TicketService) ListTickets(ctx context.Context, session *Session) ([]domain.Ticket, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return nil, err
	}
	tickets := s.tickets.List(ctx)
	slices.SortStableFunc(tickets, domain.CompareByDateAndEvent)
	if err := s.tickets.Replace(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ChangePriority sets a new priority on an existing ticket.
func (s *TicketService) ChangePriority(ctx context.Context, session *Session, ticketID string, priority int) (*domain.Ticket, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, strings.TrimSpace(ticketID))
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	ticket.Priority = priority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Actor:    actorOf(session),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: priority,
		},
	})
	return ticket, nil
}

// DisableTicket removes a ticket from the collection.
func (s *TicketService) DisableTicket(ctx context.Context, session *Session, ticketID string) (*domain.Ticket, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, strings.TrimSpace(ticketID))
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDisabled,
		TicketID: ticket.ID,
		Actor:    actorOf(session),
		Payload: events.TicketDisabledPayload{
			EventID: ticket.EventID,
			Date:    domain.FormatDate(ticket.Date),
		},
	})
	return ticket, nil
}

// TodayEvents returns the tickets dated today, in collection order.
func (s *TicketService) TodayEvents(ctx context.Context, session *Session) ([]domain.Ticket, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.todayEvents(ctx), nil
}

// RunEvents consumes today's tickets. The returned slice is ordered by
// priority, highest first; exactly those tickets leave the collection.
func (s *TicketService) RunEvents(ctx context.Context, session *Session) ([]domain.Ticket, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return nil, err
	}
	today := s.todayEvents(ctx)
	if len(today) == 0 {
		return today, nil
	}
	slices.SortStableFunc(today, domain.CompareByPriorityDesc)

	consumed := make([]string, 0, len(today))
	for _, t := range today {
		consumed = append(consumed, t.ID)
	}
	removed := s.tickets.DeleteMany(ctx, consumed)
	s.logger.Info("events run", zap.Int("selected", len(today)), zap.Int("removed", removed))

	for i, t := range today {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketConsumed,
			TicketID: t.ID,
			Actor:    actorOf(session),
			Payload: events.TicketConsumedPayload{
				EventID:  t.EventID,
				Priority: t.Priority,
				Position: i + 1,
			},
		})
	}
	return today, nil
}

// Statistics reports per-event and per-user counts. The top event is the first
// event id, in order of first appearance, to hold the highest count.
func (s *TicketService) Statistics(ctx context.Context, session *Session) (Statistics, error) {
	if _, err := s.authorize(session, domain.RoleAdmin); err != nil {
		return Statistics{}, err
	}
	tickets := s.tickets.List(ctx)
	stats := Statistics{
		Empty:    len(tickets) == 0,
		Total:    len(tickets),
		Today:    len(s.todayEvents(ctx)),
		PerEvent: map[string]int{},
		PerUser:  map[string]int{},
	}

	var order []string
	for _, t := range tickets {
		if _, seen := stats.PerEvent[t.EventID]; !seen {
			order = append(order, t.EventID)
		}
		stats.PerEvent[t.EventID]++
		stats.PerUser[t.Username]++
	}
	for _, eventID := range order {
		if count := stats.PerEvent[eventID]; count > stats.TopEventCount {
			stats.TopEventID = eventID
			stats.TopEventCount = count
		}
	}
	return stats, nil
}

func (s *TicketService) todayEvents(ctx context.Context) []domain.Ticket {
	now := s.clock.Now()
	today := []domain.Ticket{}
	for _, t := range s.tickets.List(ctx) {
		if domain.SameDay(t.Date, now) {
			today = append(today, t)
		}
	}
	return today
}

// authorize verifies the session token and, when roles are given, the role it carries.
// A verified session gets a fresh token, so expiry counts from the last operation.
func (s *TicketService) authorize(session *Session, roles ...domain.Role) (*auth.Principal, error) {
	if session == nil {
		return nil, apperrors.NewUnauthorized("login required")
	}
	if s.tokens == nil {
		if len(roles) > 0 && !slices.Contains(roles, session.Role) {
			return nil, apperrors.NewForbidden("insufficient role")
		}
		return &auth.Principal{Username: session.Username, Role: session.Role}, nil
	}
	principal, err := s.tokens.RequireRole(session.Token, roles...)
	if err != nil {
		return nil, err
	}
	if principal.Username != session.Username || principal.Role != session.Role {
		return nil, apperrors.NewUnauthorized("session does not match token")
	}
	s.renew(session)
	return principal, nil
}

func (s *TicketService) renew(session *Session) {
	token, exp, err := s.tokens.GenerateToken(session.Username, session.Role)
	if err != nil {
		s.logger.Warn("session renewal failed", zap.String("username", session.Username), zap.Error(err))
		return
	}
	session.Token = token
	session.ExpiresAt = exp
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorOf(session *Session) events.Actor {
	if session == nil {
		return events.Actor{}
	}
	return events.Actor{Username: session.Username, Role: session.Role}
}
