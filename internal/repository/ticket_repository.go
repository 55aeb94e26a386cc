package repository

import (
	"context"
	"slices"

	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// TicketRepository encapsulates the in-memory ticket collection.
// Order is insertion order unless rewritten with Replace.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Exists(ctx context.Context, id string) bool
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) int
	List(ctx context.Context) []domain.Ticket
	Replace(ctx context.Context, tickets []domain.Ticket) error
	Count(ctx context.Context) int
}

type ticketRepository struct {
	tickets []domain.Ticket
}

// NewTicketRepository instantiates an empty collection.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	if ticket == nil {
		return apperrors.NewValidationError("ticket required", nil)
	}
	if r.indexOf(ticket.ID) >= 0 {
		return apperrors.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.ID})
	}
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *ticketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	if ticket == nil {
		return apperrors.NewValidationError("ticket required", nil)
	}
	idx := r.indexOf(ticket.ID)
	if idx < 0 {
		return notFound(ticket.ID)
	}
	r.tickets[idx] = *ticket
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	ticket := r.tickets[idx]
	return &ticket, nil
}

func (r *ticketRepository) Exists(_ context.Context, id string) bool {
	return r.indexOf(id) >= 0
}

func (r *ticketRepository) Delete(_ context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return notFound(id)
	}
	r.tickets = slices.Delete(r.tickets, idx, idx+1)
	return nil
}

func (r *ticketRepository) DeleteMany(_ context.Context, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	before := len(r.tickets)
	r.tickets = slices.DeleteFunc(r.tickets, func(t domain.Ticket) bool {
		_, ok := remove[t.ID]
		return ok
	})
	return before - len(r.tickets)
}

func (r *ticketRepository) List(_ context.Context) []domain.Ticket {
	return slices.Clone(r.tickets)
}

func (r *ticketRepository) Replace(_ context.Context, tickets []domain.Ticket) error {
	seen := make(map[string]struct{}, len(tickets))
	for _, t := range tickets {
		if _, dup := seen[t.ID]; dup {
			return apperrors.NewConflict("duplicate ticket id", map[string]any{"ticket_id": t.ID})
		}
		seen[t.ID] = struct{}{}
	}
	r.tickets = slices.Clone(tickets)
	return nil
}

func (r *ticketRepository) Count(_ context.Context) int {
	return len(r.tickets)
}

func (r *ticketRepository) indexOf(id string) int {
	return slices.IndexFunc(r.tickets, func(t domain.Ticket) bool { return t.ID == id })
}

func notFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
}
