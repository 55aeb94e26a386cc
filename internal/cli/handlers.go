package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/domain"
	"github.com/spec-kit/ticket-booking/internal/service"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// Handlers implements the menu actions for one session.
type Handlers struct {
	tickets *service.TicketService
	authSvc *service.AuthService
	audit   *service.AuditService
	console *Console
	session *service.Session
	logger  *zap.Logger
}

// HandlerDependencies bundles the collaborators of the menu actions.
type HandlerDependencies struct {
	Tickets *service.TicketService
	Auth    *service.AuthService
	Audit   *service.AuditService
	Console *Console
	Session *service.Session
	Logger  *zap.Logger
}

// NewHandlers binds actions to a logged-in session.
func NewHandlers(deps HandlerDependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		tickets: deps.Tickets,
		authSvc: deps.Auth,
		audit:   deps.Audit,
		console: deps.Console,
		session: deps.Session,
		logger:  logger,
	}
}

// DisplayStatistics prints the busiest event and collection totals.
func (h *Handlers) DisplayStatistics(ctx context.Context) error {
	stats, err := h.tickets.Statistics(ctx, h.session)
	if err != nil {
		return h.report(ctx, "statistics", err, "")
	}
	if stats.Empty {
		h.console.Linef("No tickets available.")
		return nil
	}
	h.console.Linef("The event ID with the highest number of tickets is: %s", stats.TopEventID)
	h.console.Linef("Total tickets: %d, scheduled today: %d", stats.Total, stats.Today)
	return nil
}

// BookTicket prompts for a booking. Only admins are asked for a priority.
func (h *Handlers) BookTicket(ctx context.Context) error {
	eventID, err := h.console.ReadLineContext(ctx, "Enter Event ID: ")
	if err != nil {
		return err
	}
	date, err := h.console.ReadLineContext(ctx, "Enter Date (YYYYMMDD): ")
	if err != nil {
		return err
	}
	if err := domain.ValidateDate(strings.TrimSpace(date)); err != nil {
		return h.report(ctx, "book", err, "")
	}

	input := service.BookingInput{EventID: eventID, Date: date}
	if h.session.IsAdmin() {
		priority, ok, err := h.readInt(ctx, "Enter Priority: ")
		if err != nil || !ok {
			return err
		}
		input.Priority = priority
	}

	ticket, err := h.tickets.BookTicket(ctx, h.session, input)
	if err != nil {
		return h.report(ctx, "book", err, "")
	}
	h.console.Linef("Ticket booked successfully!")
	h.console.Linef("Your ticket ID is %s.", ticket.ID)
	return nil
}

// DisplayAllTickets lists every ticket by date and event id.
func (h *Handlers) DisplayAllTickets(ctx context.Context) error {
	tickets, err := h.tickets.ListTickets(ctx, h.session)
	if err != nil {
		return h.report(ctx, "list", err, "")
	}
	if len(tickets) == 0 {
		h.console.Linef("No tickets available.")
		return nil
	}
	h.console.Linef("Tickets:")
	for _, t := range tickets {
		h.console.Linef("%s", t.String())
	}
	return nil
}

// ChangePriority prompts for a ticket id and its new priority.
func (h *Handlers) ChangePriority(ctx context.Context) error {
	ticketID, err := h.console.ReadLineContext(ctx, "Enter Ticket ID: ")
	if err != nil {
		return err
	}
	ticketID = strings.TrimSpace(ticketID)
	priority, ok, err := h.readInt(ctx, "Enter New Priority: ")
	if err != nil || !ok {
		return err
	}

	if _, err := h.tickets.ChangePriority(ctx, h.session, ticketID, priority); err != nil {
		return h.report(ctx, "change_priority", err, ticketID)
	}
	h.console.Linef("Priority of Ticket %s changed to %d.", ticketID, priority)
	return nil
}

// DisableTicket prompts for a ticket id and removes it.
func (h *Handlers) DisableTicket(ctx context.Context) error {
	ticketID, err := h.console.ReadLineContext(ctx, "Enter Ticket ID: ")
	if err != nil {
		return err
	}
	ticketID = strings.TrimSpace(ticketID)

	if _, err := h.tickets.DisableTicket(ctx, h.session, ticketID); err != nil {
		return h.report(ctx, "disable", err, ticketID)
	}
	h.console.Linef("Ticket %s removed successfully.", ticketID)
	return nil
}

// RunEvents reports today's events by priority and consumes them.
func (h *Handlers) RunEvents(ctx context.Context) error {
	ran, err := h.tickets.RunEvents(ctx, h.session)
	if err != nil {
		return h.report(ctx, "run_events", err, "")
	}
	if len(ran) == 0 {
		h.console.Linef("No events scheduled for today.")
		return nil
	}
	h.console.Linef("Today's Events (Sorted by Priority):")
	for _, t := range ran {
		h.console.Linef("Event ID: %s, Priority: %d", t.EventID, t.Priority)
	}
	return nil
}

// readInt prompts for a whole number. ok is false when the input was rejected and reported.
func (h *Handlers) readInt(ctx context.Context, prompt string) (int, bool, error) {
	raw, err := h.console.ReadLineContext(ctx, prompt)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil {
		h.console.Linef("Invalid priority. Please enter a whole number.")
		return 0, false, nil
	}
	return n, true, nil
}

// report prints a user-facing message for expected failures and returns nil.
// Anything else is returned to end the menu loop.
func (h *Handlers) report(ctx context.Context, operation string, err error, ticketID string) error {
	if h.audit != nil {
		h.audit.RecordFailure(operation, err)
	}
	de := apperrors.ToDomainError(err)
	switch de.Code {
	case apperrors.CodeNotFound:
		h.console.Linef("Ticket %s not found.", ticketID)
	case apperrors.CodeValidation:
		if _, isDate := de.Details["date"]; isDate {
			h.console.Linef("Invalid date. Please use YYYYMMDD.")
		} else {
			h.console.Linef("Invalid input: %s.", de.Message)
		}
	case apperrors.CodeForbidden:
		h.console.Linef("Permission denied.")
	case apperrors.CodeUnauthorized:
		h.console.Linef("Session expired. Please log in again.")
		return h.relogin(ctx)
	default:
		h.logger.Error("operation failed", zap.String("operation", operation), zap.Error(err))
		return err
	}
	return nil
}

// relogin runs the login form in place. The menu carries on with the fresh
// session only when the same account and role log back in.
func (h *Handlers) relogin(ctx context.Context) error {
	if h.authSvc == nil {
		return nil
	}
	fresh, err := h.authSvc.Login(ctx, NewLoginForm(h.console))
	if err != nil {
		if errors.Is(err, service.ErrLoginAttemptsExceeded) {
			h.console.Linef("Maximum login attempts exceeded.")
		}
		return err
	}
	if fresh.Username != h.session.Username || fresh.Role != h.session.Role {
		h.logger.Warn("relogin as a different account ignored",
			zap.String("session", h.session.Username), zap.String("username", fresh.Username))
		h.console.Linef("Please log in as %s to continue this session.", h.session.Username)
		return nil
	}
	*h.session = *fresh
	h.logger.Info("session renewed", zap.String("username", fresh.Username))
	h.console.Linef("Logged in again. Please retry your choice.")
	return nil
}
