package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/resell-valuator/internal/api/handlers"
	mw "github.com/donaldgifford/resell-valuator/internal/api/middleware"
	"github.com/donaldgifford/resell-valuator/internal/config"
	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/internal/market"
	"github.com/donaldgifford/resell-valuator/internal/telemetry"
	"github.com/donaldgifford/resell-valuator/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		SampleRatio: cfg.Telemetry.SampleRatio,
	}, Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	bundle, err := loadArtifacts(cfg, log)
	if err != nil {
		return fmt.Errorf("loading artifacts: %w", err)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	entries, err := referenceEntries(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	refs, err := newReferenceStore(entries, st, log)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, bundle, refs, log)
	if err != nil {
		return err
	}

	var refresher *engine.ReferenceRefresher
	if st != nil {
		refresher = engine.NewReferenceRefresher(
			st, refs, cfg.References.DerivationFactor, logger.Component(log, "refresh"),
		)
	}

	var checker *engine.WatchChecker
	if st != nil {
		checker = engine.NewWatchChecker(
			eng, st, newNotifier(&cfg.Notifications, logger.Component(log, "notify")),
			logger.Component(log, "watches"),
		)
	}

	if st != nil && (cfg.Schedule.ReferenceRefreshInterval > 0 || cfg.Schedule.WatchCheckInterval > 0) {
		sched, err := engine.NewScheduler(engine.Schedule{
			Refresher:       refresher,
			RefreshInterval: cfg.Schedule.ReferenceRefreshInterval,
			Watches:         checker,
			WatchInterval:   cfg.Schedule.WatchCheckInterval,
		}, logger.Component(log, "scheduler"))
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	e := newServer(cfg, log)

	// Ready once artifacts are loaded and the listener is up; false again during shutdown.
	var ready atomic.Bool
	var db handlers.Pinger
	if st != nil {
		db = st
	}
	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(ready.Load, db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("resell-valuator", Version))

	valuationOpts := []handlers.ValuationOption{
		handlers.WithMaxRows(cfg.Batch.MaxRows),
		handlers.WithLogger(logger.Component(log, "api")),
	}
	if st != nil {
		valuationOpts = append(valuationOpts, handlers.WithRunRecorder(st))
		handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(st))
		handlers.RegisterWatchRoutes(api, handlers.NewWatchHandler(st, eng, checker, handlers.WatchDefaults{
			AgeMonths:     cfg.Alerts.DefaultAgeMonths,
			BatteryHealth: cfg.Alerts.DefaultBatteryHealth,
		}))
		handlers.RegisterMarketRoutes(api, handlers.NewMarketHandler(market.NewAnalyzer(st, refs)))
	}
	handlers.RegisterValuationRoutes(api, handlers.NewValuationHandler(eng, valuationOpts...))

	var refreshHandler handlers.Refresher
	if refresher != nil {
		refreshHandler = refresher
	}
	handlers.RegisterReferenceRoutes(api, handlers.NewReferenceHandler(refs, refreshHandler))
	handlers.RegisterVocabularyRoutes(api, handlers.NewVocabularyHandler(bundle.Encoders, refs))
	handlers.RegisterModelRoutes(api, handlers.NewModelHandler(eng))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"schema", eng.Schema(),
		"references", refs.Len(),
		"database", st != nil,
	)

	ready.Store(true)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ready.Store(false)
	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newServer(cfg *config.Config, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	httpLog := logger.Component(log, "http")
	e.Use(
		mw.RequestLog(httpLog),
		mw.Recovery(httpLog),
		mw.Metrics(),
		echomw.BodyLimit(cfg.Server.BodyLimit),
		mw.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst,
			"/api/v1/valuations/batch",
			"/api/v1/valuations/bulk",
		),
	)
	return e
}
