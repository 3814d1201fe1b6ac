// Command server runs the portfolio analytics HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/stockfolio/internal/config"
	"github.com/aristath/stockfolio/internal/database"
	"github.com/aristath/stockfolio/internal/modules/analytics"
	analyticshandlers "github.com/aristath/stockfolio/internal/modules/analytics/handlers"
	"github.com/aristath/stockfolio/internal/modules/cashflows"
	cashflowshandlers "github.com/aristath/stockfolio/internal/modules/cashflows/handlers"
	"github.com/aristath/stockfolio/internal/modules/charts"
	chartshandlers "github.com/aristath/stockfolio/internal/modules/charts/handlers"
	"github.com/aristath/stockfolio/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/stockfolio/internal/modules/portfolio/handlers"
	"github.com/aristath/stockfolio/internal/modules/prices"
	priceshandlers "github.com/aristath/stockfolio/internal/modules/prices/handlers"
	"github.com/aristath/stockfolio/internal/modules/trading"
	tradinghandlers "github.com/aristath/stockfolio/internal/modules/trading/handlers"
	"github.com/aristath/stockfolio/internal/scheduler"
	"github.com/aristath/stockfolio/internal/server"
	"github.com/aristath/stockfolio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't up yet
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting stockfolio")

	// Ledger database: the immutable trade and cash-flow trail
	ledgerDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "ledger.db"),
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger database")
	}
	defer ledgerDB.Close()

	// Market database: price history and current holdings
	marketDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "market.db"),
		Profile: database.ProfileStandard,
		Name:    "market",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open market database")
	}
	defer marketDB.Close()

	for _, migration := range []struct {
		db     *database.DB
		schema string
	}{
		{ledgerDB, trading.Schema},
		{ledgerDB, cashflows.Schema},
		{marketDB, prices.Schema},
		{marketDB, portfolio.Schema},
	} {
		if err := migration.db.Migrate(migration.schema); err != nil {
			log.Fatal().Err(err).Str("database", migration.db.Name()).Msg("Failed to apply schema")
		}
	}

	// Repositories
	tradeRepo := trading.NewTradeRepository(ledgerDB.Conn(), log)
	priceRepo := prices.NewRepository(marketDB.Conn(), log)
	flowRepo := cashflows.NewRepository(ledgerDB.Conn(), log)
	holdingRepo := portfolio.NewHoldingRepository(marketDB.Conn(), log)

	// Services
	analyticsCfg := analytics.Config{
		RiskFreeRate:    cfg.RiskFreeRate,
		LookbackDays:    cfg.MetricsLookbackDays,
		MinObservations: analytics.DefaultConfig().MinObservations,
	}
	analyticsService := analytics.NewService(tradeRepo, priceRepo, analyticsCfg, log)
	portfolioService := portfolio.NewService(holdingRepo, priceRepo, tradeRepo, flowRepo, log)
	chartService := charts.NewService(analyticsService, log)

	// Background maintenance
	jobs := scheduler.New(log)
	maintenance := scheduler.NewMaintenanceJob([]*database.DB{ledgerDB, marketDB}, log)
	if err := jobs.AddJob("@daily", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}
	jobs.Start()
	defer jobs.Stop()

	// First health pass immediately, not a day from now
	if err := jobs.RunNow(maintenance); err != nil {
		log.Warn().Err(err).Msg("Startup maintenance run failed")
	}

	srv := server.New(server.Config{
		Log:      log,
		Config:   cfg,
		LedgerDB: ledgerDB,
		MarketDB: marketDB,
		Modules: []server.RouteRegistrar{
			tradinghandlers.NewHandler(tradeRepo, portfolioService, log),
			priceshandlers.NewHandler(priceRepo, log),
			analyticshandlers.NewHandler(analyticsService, log),
			cashflowshandlers.NewHandler(flowRepo, log),
			portfoliohandlers.NewHandler(holdingRepo, portfolioService, log),
			chartshandlers.NewHandler(chartService, log),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}

	log.Info().Msg("Stopped")
}
