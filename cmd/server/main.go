package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/config"
	"github.com/mamadbah2/acai-manager/internal/repository/sheets"
	"github.com/mamadbah2/acai-manager/internal/scheduler"
	"github.com/mamadbah2/acai-manager/internal/server/handlers"
	"github.com/mamadbah2/acai-manager/internal/server/router"
	"github.com/mamadbah2/acai-manager/internal/service/assistant"
	"github.com/mamadbah2/acai-manager/internal/service/catalog"
	"github.com/mamadbah2/acai-manager/internal/service/checkout"
	"github.com/mamadbah2/acai-manager/internal/service/ledger"
	"github.com/mamadbah2/acai-manager/internal/service/persistence"
	"github.com/mamadbah2/acai-manager/internal/service/receipt"
	"github.com/mamadbah2/acai-manager/internal/service/reporting"
	"github.com/mamadbah2/acai-manager/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/acai-manager/pkg/clients/whatsapp"
	"github.com/mamadbah2/acai-manager/pkg/logger"
	"github.com/mamadbah2/acai-manager/pkg/metrics"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(registry)
	cronMetrics := metrics.NewCronJobMetrics(registry)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStorage(startupCtx, cfg, baseLogger)
	cancelStartup()
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store.Close(closeCtx)
	}()

	snapshots := persistence.NewSnapshotter(store.backend, baseLogger.Named("svc.persistence"), persistence.WithFailureRecorder(posMetrics))
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	state := snapshots.LoadState(loadCtx, catalog.DefaultProducts(), catalog.DefaultFees())
	cancelLoad()
	baseLogger.Info("state loaded",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("products", len(state.Products)),
		zap.Int("fees", len(state.DeliveryFees)),
		zap.Int("sales", len(state.Sales)))

	hooks := []ledger.Hook{posMetrics}
	var mirror *sheets.SalesMirror
	if cfg.Sheets.Enabled() {
		sheetClient, err := sheets.NewClient(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets client", zap.Error(err))
		}
		mirror = sheets.NewSalesMirror(sheetClient, baseLogger.Named("repo.sheets.mirror"))
		hooks = append(hooks, mirror)
		baseLogger.Info("sales mirror enabled")
	}

	catalogStore := catalog.NewStore(state.Products, state.DeliveryFees, snapshots, baseLogger.Named("svc.catalog"))
	salesLedger := ledger.New(state.Sales, snapshots, baseLogger.Named("svc.ledger"), hooks...)
	engine := checkout.NewEngine(salesLedger, baseLogger.Named("svc.checkout"))
	terminal := checkout.NewTerminal(catalogStore, engine, baseLogger.Named("svc.terminal"))
	reportingSvc := reporting.NewService(salesLedger, location, baseLogger.Named("svc.reporting"))

	// Initialize AI Client
	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, anthropic.WithModel(cfg.AI.Model))
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, assistant disabled")
	}
	assistantCtrl := assistant.NewController(aiClient, catalogStore, terminal, reportingSvc, assistant.NewHistory(20), baseLogger.Named("svc.assistant"))

	httpEngine := router.New(router.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalogStore, baseLogger.Named("handlers.catalog")),
		POS:       handlers.NewPOSHandler(terminal, baseLogger.Named("handlers.pos")),
		Sales:     handlers.NewSalesHandler(salesLedger, receipt.NewRenderer(location), baseLogger.Named("handlers.sales")),
		Reports:   handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		State:     handlers.NewStateHandler(catalogStore, salesLedger),
		Assistant: handlers.NewAssistantHandler(assistantCtrl, baseLogger.Named("handlers.assistant")),
	}, registry, baseLogger.Named("router"))

	// Initialize Scheduler
	schedOpts := scheduler.Options{
		Archive:  store.archive,
		Metrics:  cronMetrics,
		Location: location,
	}
	if cfg.WhatsApp.Enabled() {
		schedOpts.Sender = whatsappclient.NewClient(cfg.WhatsApp)
		schedOpts.OwnerPhone = cfg.WhatsApp.OwnerPhone
	}
	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, reportingSvc, schedOpts, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	if mirror != nil {
		mirror.Wait()
	}
}
