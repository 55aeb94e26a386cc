package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/persistence"
	"github.com/spec-kit/ticket-booking/internal/service"
)

// App runs one booking session: import, login, menu, save.
type App struct {
	store   *persistence.FileStore
	tickets *service.TicketService
	authSvc *service.AuthService
	audit   *service.AuditService
	console *Console
	logger  *zap.Logger
}

// AppDependencies bundles the collaborators of a session.
type AppDependencies struct {
	Store   *persistence.FileStore
	Tickets *service.TicketService
	Auth    *service.AuthService
	Audit   *service.AuditService
	Console *Console
	Logger  *zap.Logger
}

// NewApp builds the session runner.
func NewApp(deps AppDependencies) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:   deps.Store,
		tickets: deps.Tickets,
		authSvc: deps.Auth,
		audit:   deps.Audit,
		console: deps.Console,
		logger:  logger,
	}
}

// Run executes the session. Tickets are saved only after a successful login,
// on a normal menu exit or an interrupt.
func (a *App) Run(ctx context.Context) error {
	loaded, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("import tickets: %w", err)
	}
	if err := a.tickets.Import(ctx, a.store.Path(), loaded); err != nil {
		return fmt.Errorf("import tickets: %w", err)
	}

	a.logger.Debug("awaiting login", zap.Int("max_attempts", a.authSvc.MaxAttempts()))
	session, err := a.authSvc.Login(ctx, NewLoginForm(a.console))
	if err != nil {
		if errors.Is(err, service.ErrLoginAttemptsExceeded) {
			a.console.Linef("Maximum login attempts exceeded.")
		}
		return err
	}

	handlers := NewHandlers(HandlerDependencies{
		Tickets: a.tickets,
		Auth:    a.authSvc,
		Audit:   a.audit,
		Console: a.console,
		Session: session,
		Logger:  a.logger,
	})
	menu := UserMenu(handlers)
	if session.IsAdmin() {
		menu = AdminMenu(handlers)
	}
	menuErr := menu.Run(ctx, a.console, a.logger)
	if errors.Is(menuErr, context.Canceled) {
		a.console.Linef("")
		a.logger.Info("session interrupted, saving tickets")
		menuErr = nil
	}

	saveCtx := context.WithoutCancel(ctx)
	snapshot := a.tickets.Tickets(saveCtx)
	if err := a.store.Save(saveCtx, snapshot); err != nil {
		return errors.Join(menuErr, fmt.Errorf("save tickets: %w", err))
	}
	a.tickets.MarkSaved(saveCtx, session, a.store.Path(), len(snapshot))
	if a.audit != nil {
		a.audit.LogSummary()
	}
	return menuErr
}
