package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scafhq/attendance-engine/internal/config"
	appHTTP "github.com/scafhq/attendance-engine/internal/handler/http"
	"github.com/scafhq/attendance-engine/internal/pkg/cron"
	"github.com/scafhq/attendance-engine/internal/pkg/database"
	"github.com/scafhq/attendance-engine/internal/pkg/email"
	"github.com/scafhq/attendance-engine/internal/pkg/metrics"
	"github.com/scafhq/attendance-engine/internal/pkg/signer"
	"github.com/scafhq/attendance-engine/internal/pkg/terminal"
	"github.com/scafhq/attendance-engine/internal/repository/postgresql"
	"github.com/scafhq/attendance-engine/internal/repository/sqlite"
	auditService "github.com/scafhq/attendance-engine/internal/service/audit"
	"github.com/scafhq/attendance-engine/internal/service/classify"
	ingestService "github.com/scafhq/attendance-engine/internal/service/ingest"
	reconcileService "github.com/scafhq/attendance-engine/internal/service/reconcile"
	rectificationService "github.com/scafhq/attendance-engine/internal/service/rectification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "attendance-engine"),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	buffer, err := sqlite.NewBufferRepository(cfg.Buffer.Path)
	if err != nil {
		log.Fatal("Failed to open durable buffer: ", err)
	}
	defer buffer.Close()

	ledgerRepo := postgresql.NewLedgerRepository(db)
	rosterRepo := postgresql.NewRosterRepository(db)
	transactor := postgresql.NewTransactor(db)

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	engineMetrics := metrics.New()
	rowSigner := signer.New(cfg.Signing.Salt)
	classifier := classify.New()

	state := ingestService.NewEngineState()
	ingestService.PrimeNameCache(context.Background(), state, rosterRepo, logger)

	ingest := ingestService.NewIngestService(buffer, state, engineMetrics, logger, cfg.Engine.DebounceWindow)
	reconciler := reconcileService.NewService(
		buffer,
		ledgerRepo,
		rosterRepo,
		classifier,
		rowSigner,
		emailSvc,
		transactor,
		engineMetrics,
		logger,
		cfg.Engine.BatchSize,
	)
	rectifySvc := rectificationService.NewRectificationService(ledgerRepo, rosterRepo, classifier, rowSigner, logger)
	auditSvc := auditService.NewAuditService(ledgerRepo, rowSigner, logger)

	sources, err := terminal.LoadSources(cfg.Engine.TerminalsFile, cfg.Engine.TerminalTimeout)
	if err != nil {
		log.Fatal("Failed to load terminal sources: ", err)
	}
	if len(sources) == 0 {
		logger.Warn("no terminal sources configured, engine will only drain the buffer")
	}

	// One job keeps the poll->ingest->drain cycle strictly sequential:
	// no two passes can race on the same worker's day row.
	scheduler := cron.NewScheduler()
	scheduler.AddJob("attendance_engine_cycle", cfg.Engine.PollInterval, func(ctx context.Context) error {
		for _, source := range sources {
			events, err := source.FetchEvents(ctx)
			if err != nil {
				logger.Warn("terminal poll failed",
					slog.String("terminal", source.Name()),
					slog.Any("error", err))
				continue
			}
			if _, err := ingest.ProcessBatch(ctx, events, source); err != nil {
				logger.Error("ingestion failed",
					slog.String("terminal", source.Name()),
					slog.Any("error", err))
			}
		}
		return reconciler.DrainOnce(ctx)
	})
	scheduler.Start()

	engineHandler := appHTTP.NewEngineHandler(ingest, ledgerRepo, auditSvc, rectifySvc)
	router := appHTTP.NewRouter(engineHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
}
