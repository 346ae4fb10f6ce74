// internal/quoter/runner.go
package quoter

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
	"github.com/rovshanmuradov/cpamm-quoter/internal/blockchain/solbc"
	"github.com/rovshanmuradov/cpamm-quoter/internal/config"
	"github.com/rovshanmuradov/cpamm-quoter/internal/ui"
	"github.com/rovshanmuradov/cpamm-quoter/internal/utils/metrics"
)

// Runner связывает конфиг, загрузчик снимков, рынок и метрики.
type Runner struct {
	logger    *zap.Logger
	config    *config.Config
	loader    *market.Loader
	collector *metrics.Collector

	mu     sync.RWMutex
	market *market.Market
}

// Request describes one quote in user terms.
type Request struct {
	Input       ui.Leg
	Mode        market.SwapMode
	Amount      string // в единицах зафиксированного минта, например "1.5"
	SlippageBps uint64
}

// Result — котировка вместе с рынком, по которому она посчитана.
type Result struct {
	Market  *market.Market
	Request market.QuoteRequest
	Quote   *market.MarketQuote
}

// NewRunner builds the pool market from cfg. Metrics are registered in reg.
func NewRunner(cfg *config.Config, logger *zap.Logger, fetcher market.AccountFetcher, reg prometheus.Registerer) (*Runner, error) {
	pool, err := cfg.PoolConfig()
	if err != nil {
		return nil, fmt.Errorf("pool config: %w", err)
	}
	m, err := market.NewMarket(pool)
	if err != nil {
		return nil, fmt.Errorf("market: %w", err)
	}

	collector := metrics.NewCollector(reg)
	opts := cfg.LoaderOptions()
	opts.Retryable = solbc.IsRetryable
	return &Runner{
		logger:    logger,
		config:    cfg,
		loader:    market.NewLoader(fetcher, collector, logger, opts),
		collector: collector,
		market:    m,
	}, nil
}

func (r *Runner) Market() *market.Market {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.market
}

// DefaultSlippage is the configured slippage in basis points.
func (r *Runner) DefaultSlippage() uint64 {
	return r.config.SlippageBps
}

func (r *Runner) Collector() *metrics.Collector {
	return r.collector
}

// Refresh implements ui.Refresher and keeps the latest snapshot.
func (r *Runner) Refresh(ctx context.Context, m *market.Market) (*market.Market, error) {
	next, err := r.loader.Refresh(ctx, m)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.market = next
	r.mu.Unlock()
	return next, nil
}

// Quote загружает свежий снимок и считает котировку.
func (r *Runner) Quote(ctx context.Context, req Request) (*Result, error) {
	m, err := r.Refresh(ctx, r.Market())
	if err != nil {
		return nil, fmt.Errorf("load pool snapshot: %w", err)
	}

	qr := ui.BuildRequest(m, req.Input, req.Mode, 0, req.SlippageBps)
	amount, err := ui.ParseAmount(req.Amount, m.Decimals(ui.FixedMint(qr)))
	if err != nil {
		return nil, err
	}
	qr.Amount = amount

	start := time.Now()
	q, err := m.Quote(qr)
	r.collector.RecordQuote(qr.Mode.String(), req.Input.Direction().String(), time.Since(start), err == nil)
	if err != nil {
		r.logger.Warn("Quote failed",
			zap.String("mode", qr.Mode.String()),
			zap.Uint64("amount", amount),
			zap.Error(err))
		return nil, fmt.Errorf("quote: %w", err)
	}

	r.logger.Info("Quote computed",
		zap.String("pool", m.Key().String()),
		zap.String("mode", q.Mode.String()),
		zap.String("direction", q.Direction.String()),
		zap.Uint64("in", q.InAmount),
		zap.Uint64("out", q.OutAmount),
		zap.Uint64("bound", q.Bound),
		zap.Uint64("fee", q.FeeAmount))

	return &Result{Market: m, Request: qr, Quote: q}, nil
}

// Shutdown сбрасывает буферы логгера.
func (r *Runner) Shutdown() {
	if err := r.logger.Sync(); err != nil {
		if !os.IsNotExist(err) &&
			err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: inappropriate ioctl for device" {
			fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
		}
	}
}
