// ====================================
// File: cmd/quote/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
	"github.com/rovshanmuradov/cpamm-quoter/internal/blockchain/solbc"
	"github.com/rovshanmuradov/cpamm-quoter/internal/config"
	"github.com/rovshanmuradov/cpamm-quoter/internal/quoter"
	"github.com/rovshanmuradov/cpamm-quoter/internal/ui"
	"github.com/rovshanmuradov/cpamm-quoter/internal/utils/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	amount := flag.String("amount", "", "Amount of the fixed leg, e.g. 1.5")
	modeFlag := flag.String("mode", "in", "Swap mode: in or out")
	inputFlag := flag.String("input", "quote", "Leg paid into the pool: base or quote")
	slippage := flag.Int64("slippage", -1, "Slippage in bps, overrides config")
	flag.Parse()

	if *amount == "" {
		fmt.Fprintln(os.Stderr, "-amount is required")
		flag.Usage()
		return 1
	}
	mode, err := market.ParseSwapMode(*modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	input, err := ui.ParseLeg(*inputFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	logCfg.Console = os.Stderr
	appLogger, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := solbc.NewClient(cfg.RPCURL, appLogger.Logger)
	runner, err := quoter.NewRunner(cfg, appLogger.Logger, client, prometheus.NewRegistry())
	if err != nil {
		appLogger.LogError("Failed to initialize quoter", err)
		return 1
	}
	defer runner.Shutdown()

	slippageBps := runner.DefaultSlippage()
	if *slippage >= 0 {
		slippageBps = uint64(*slippage)
	}

	done := appLogger.TrackPerformance("quote")
	res, err := runner.Quote(ctx, quoter.Request{
		Input:       input,
		Mode:        mode,
		Amount:      *amount,
		SlippageBps: slippageBps,
	})
	done()
	if err != nil {
		appLogger.LogError("Quote failed", err, zap.String("pool", cfg.Pool.Address))
		fmt.Fprintln(os.Stderr, ui.NewRenderer().Error(err))
		return 1
	}

	fmt.Println(ui.NewRenderer().Quote(res.Market, res.Request, res.Quote))
	return 0
}
