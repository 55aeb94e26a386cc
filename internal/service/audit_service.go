package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/events"
	"github.com/spec-kit/ticket-booking/internal/observability"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// AuditService logs booking events and feeds operation counters.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketBooked, a.handleTicketBooked)
	a.dispatcher.Subscribe(events.EventTicketPriorityChanged, a.handleTicketChanged)
	a.dispatcher.Subscribe(events.EventTicketDisabled, a.handleTicketChanged)
	a.dispatcher.Subscribe(events.EventTicketConsumed, a.handleTicketConsumed)
	a.dispatcher.Subscribe(events.EventTicketsImported, a.handleStore)
	a.dispatcher.Subscribe(events.EventTicketsSaved, a.handleStore)
}

// Metrics returns the counters fed by this service.
func (a *AuditService) Metrics() *observability.Metrics {
	return a.metrics
}

// LogSummary writes the session's operation counts.
func (a *AuditService) LogSummary() {
	ops, errs := a.metrics.Snapshot()
	a.logger.Info("session summary",
		zap.Strings("seen", a.metrics.Keys()),
		zap.Any("operations", ops),
		zap.Any("errors", errs))
}

func (a *AuditService) handleTicketBooked(_ context.Context, event events.Event) error {
	a.logger.Info("TicketBooked",
		zap.String("ticket_id", event.TicketID),
		zap.String("username", event.Actor.Username),
		zap.Any("payload", event.Payload))
	a.metrics.RecordOperation(string(event.Type))
	return nil
}

func (a *AuditService) handleTicketChanged(_ context.Context, event events.Event) error {
	a.logger.Info("TicketChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	a.metrics.RecordOperation(string(event.Type))
	return nil
}

func (a *AuditService) handleTicketConsumed(_ context.Context, event events.Event) error {
	a.logger.Info("TicketConsumed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	a.metrics.RecordOperation(string(event.Type))
	return nil
}

func (a *AuditService) handleStore(_ context.Context, event events.Event) error {
	a.logger.Debug("TicketStore", zap.String("event_type", string(event.Type)), zap.Any("payload", event.Payload))
	a.metrics.RecordOperation(string(event.Type))
	return nil
}

// RecordFailure counts a failed operation under its error code.
func (a *AuditService) RecordFailure(operation string, err error) {
	if err == nil {
		return
	}
	code := apperrors.ToDomainError(err).Code
	a.metrics.RecordError(operation, code)
	a.logger.Debug("operation failed", zap.String("operation", operation), zap.String("code", code), zap.Error(err))
}
