package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/cli"
	"github.com/spec-kit/ticket-booking/internal/clock"
	"github.com/spec-kit/ticket-booking/internal/config"
	"github.com/spec-kit/ticket-booking/internal/events"
	"github.com/spec-kit/ticket-booking/internal/observability"
	"github.com/spec-kit/ticket-booking/internal/persistence"
	"github.com/spec-kit/ticket-booking/internal/repository"
	"github.com/spec-kit/ticket-booking/internal/service"
	"github.com/spec-kit/ticket-booking/internal/worker"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

func main() {
	flags := pflag.NewFlagSet("booking", pflag.ExitOnError)
	ticketFile := flags.StringP("file", "f", "", "ticket file to load and save (default $TICKETS_FILE or tickets.txt)")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	envFile := flags.String("env-file", "", "load configuration from this file instead of .env")
	showVersion := flags.Bool("version", false, "print version and exit")
	_ = flags.Parse(os.Args[1:])

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ticketFile != "" {
		cfg.Store.Path = *ticketFile
	}
	if *logLevel != "" {
		cfg.Logger.Level = *logLevel
	}
	if *showVersion {
		fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		return
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger *zap.Logger) int {
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem()
	authService, err := service.NewAuthService(cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to init auth", zap.Error(err))
		return 1
	}
	authService.TokenManager().WithClock(clk.Now)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger, observability.NewMetrics())
	worker.StartAuditWorker(auditService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(),
		Clock:      clk,
		Tokens:     authService.TokenManager(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := cli.NewApp(cli.AppDependencies{
		Store:   persistence.NewFileStore(cfg.Store, logger),
		Tickets: ticketService,
		Auth:    authService,
		Audit:   auditService,
		Console: cli.NewTerminalConsole(os.Stdin, os.Stdout),
		Logger:  logger,
	})

	logger.Info("session starting", zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env), zap.String("file", cfg.Store.Path))
	if err := app.Run(ctx); err != nil {
		if errors.Is(err, service.ErrLoginAttemptsExceeded) {
			return 1
		}
		if errors.Is(err, context.Canceled) {
			logger.Warn("session interrupted before login")
			return 130
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logger.Error("session failed", zap.Error(err))
		return apperrors.ToDomainError(err).ExitCode
	}
	return 0
}
