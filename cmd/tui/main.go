package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
	"github.com/rovshanmuradov/cpamm-quoter/internal/blockchain/solbc"
	"github.com/rovshanmuradov/cpamm-quoter/internal/config"
	"github.com/rovshanmuradov/cpamm-quoter/internal/quoter"
	"github.com/rovshanmuradov/cpamm-quoter/internal/ui"
	"github.com/rovshanmuradov/cpamm-quoter/internal/utils/logger"
	"github.com/rovshanmuradov/cpamm-quoter/internal/utils/metrics"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	inputFlag := flag.String("input", "quote", "Leg paid into the pool: base or quote")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	input, err := ui.ParseLeg(*inputFlag)
	if err != nil {
		log.Fatal(err)
	}

	// Консоль занята TUI, поэтому пишем только в файл
	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	logCfg.Console = nil
	appLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	registry := prometheus.NewRegistry()
	client := solbc.NewClient(cfg.RPCURL, appLogger.Logger)
	runner, err := quoter.NewRunner(cfg, appLogger.Logger, client, registry)
	if err != nil {
		appLogger.LogError("Failed to initialize quoter", err)
		log.Fatalf("Failed to initialize quoter: %v", err)
	}
	defer runner.Shutdown()

	var srv *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		srv = &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			appLogger.Info("Starting metrics server", zap.String("addr", *metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.LogError("Metrics server error", err)
			}
		}()
	}

	appLogger.WithPool(cfg.Pool.Address).Info("Starting quote TUI")

	model := ui.NewQuoteModel(runner.Market(), runner, appLogger.Logger, ui.ModelOptions{
		SlippageBps: runner.DefaultSlippage(),
		Mode:        market.ExactIn,
		Input:       input,
		Timeout:     cfg.RPCTimeout() * time.Duration(cfg.Retries+1),
		Recorder:    runner.Collector(),
	})

	program := tea.NewProgram(ui.NewSafeModel(model, appLogger.Logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		appLogger.LogError("TUI application failed", err)
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	appLogger.Info("Shutting down TUI application")
}
