// =============================
// File: internal/amm/market/loader.go
// =============================
package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountFetcher — чтение состояния блокчейна, которое нужно загрузчику.
type AccountFetcher interface {
	GetMultipleAccounts(ctx context.Context, pubkeys []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error)
	GetEpoch(ctx context.Context) (uint64, error)
}

// Recorder receives loader metrics.
type Recorder interface {
	RecordRPCLatency(method string, duration time.Duration)
	RecordSnapshotLoad(pool string, success bool)
	UpdatePoolReserves(pool string, base, quote uint64)
	UpdateTransferFees(pool string, baseBps, quoteBps uint16)
}

// LoaderOptions содержит опции для создания нового Loader.
type LoaderOptions struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	// Retryable классифицирует ошибки RPC; nil — повторять любые.
	Retryable func(error) bool
}

// DefaultLoaderOptions возвращает настройки по умолчанию.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		MaxRetries: 3,
		RetryDelay: time.Second,
		Timeout:    5 * time.Second,
	}
}

// Loader читает снимок пула через RPC.
type Loader struct {
	fetcher    AccountFetcher
	recorder   Recorder
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	retryable  func(error) bool
}

// NewLoader создаёт загрузчик. recorder может быть nil.
func NewLoader(fetcher AccountFetcher, recorder Recorder, logger *zap.Logger, opts ...LoaderOptions) *Loader {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.MaxRetries <= 0 {
		options.MaxRetries = 1
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultLoaderOptions().Timeout
	}

	return &Loader{
		fetcher:    fetcher,
		recorder:   recorder,
		logger:     logger.Named("snapshot_loader"),
		maxRetries: options.MaxRetries,
		retryDelay: options.RetryDelay,
		timeout:    options.Timeout,
		retryable:  options.Retryable,
	}
}

// Refresh loads a fresh snapshot and returns the updated market.
func (l *Loader) Refresh(ctx context.Context, m *Market) (*Market, error) {
	snap, err := l.LoadSnapshot(ctx, m.Pool())
	if err != nil {
		return nil, err
	}
	return m.WithSnapshot(snap), nil
}

// LoadSnapshot читает снимок с повторами при транспортных ошибках.
// Ошибки декодирования и пустые резервы не повторяются.
func (l *Loader) LoadSnapshot(ctx context.Context, pool PoolConfig) (Snapshot, error) {
	policy := backoff.NewExponentialBackOff()
	if l.retryDelay > 0 {
		policy.InitialInterval = l.retryDelay
		policy.MaxInterval = l.retryDelay * 10
	}

	notify := func(err error, duration time.Duration) {
		l.logger.Info("Повтор загрузки снимка после ошибки",
			zap.String("pool", pool.Address.String()),
			zap.Error(err),
			zap.Duration("backoff", duration))
	}

	operation := func() (Snapshot, error) {
		return l.loadOnce(ctx, pool)
	}

	snap, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(l.maxRetries)),
		backoff.WithNotify(notify))

	l.recordLoad(pool, snap, err)
	if err != nil {
		l.logger.Error("Не удалось загрузить снимок пула",
			zap.String("pool", pool.Address.String()),
			zap.Error(err))
		return Snapshot{}, err
	}

	l.logger.Debug("Snapshot loaded",
		zap.String("pool", pool.Address.String()),
		zap.Uint64("base_reserve", snap.BaseReserve),
		zap.Uint64("quote_reserve", snap.QuoteReserve),
		zap.Uint64("epoch", snap.Epoch))
	return snap, nil
}

func (l *Loader) loadOnce(ctx context.Context, pool PoolConfig) (Snapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	accounts := []solana.PublicKey{pool.BaseVault, pool.QuoteVault, pool.BaseMint, pool.QuoteMint}

	var (
		resp  *rpc.GetMultipleAccountsResult
		epoch uint64
	)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		start := time.Now()
		var err error
		resp, err = l.fetcher.GetMultipleAccounts(gctx, accounts)
		l.recordLatency("getMultipleAccounts", time.Since(start))
		if err != nil {
			return fmt.Errorf("failed to get pool accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		epoch, err = l.fetcher.GetEpoch(gctx)
		l.recordLatency("getEpochInfo", time.Since(start))
		if err != nil {
			return fmt.Errorf("failed to get epoch: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if l.retryable != nil && !l.retryable(err) {
			return Snapshot{}, backoff.Permanent(err)
		}
		return Snapshot{}, err
	}

	snap, err := decodeSnapshot(accounts, resp, epoch)
	if err != nil {
		return Snapshot{}, backoff.Permanent(err)
	}
	return snap, nil
}

// decodeSnapshot собирает снимок из ответов в порядке AccountsToUpdate.
func decodeSnapshot(keys []solana.PublicKey, resp *rpc.GetMultipleAccountsResult, epoch uint64) (Snapshot, error) {
	if resp == nil || len(resp.Value) != len(keys) {
		return Snapshot{}, fmt.Errorf("%w: expected %d accounts", ErrAccountNotFound, len(keys))
	}
	for i, acc := range resp.Value {
		if acc == nil {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrAccountNotFound, keys[i])
		}
	}

	baseReserve, err := ParseTokenAccountAmount(resp.Value[0].Data.GetBinary())
	if err != nil {
		return Snapshot{}, fmt.Errorf("base vault: %w", err)
	}
	quoteReserve, err := ParseTokenAccountAmount(resp.Value[1].Data.GetBinary())
	if err != nil {
		return Snapshot{}, fmt.Errorf("quote vault: %w", err)
	}
	if baseReserve == 0 || quoteReserve == 0 {
		return Snapshot{}, ErrEmptyReserves
	}

	baseMint, err := ParseMint(resp.Value[2].Data.GetBinary(), resp.Value[2].Owner)
	if err != nil {
		return Snapshot{}, fmt.Errorf("base mint: %w", err)
	}
	quoteMint, err := ParseMint(resp.Value[3].Data.GetBinary(), resp.Value[3].Owner)
	if err != nil {
		return Snapshot{}, fmt.Errorf("quote mint: %w", err)
	}

	return Snapshot{
		BaseReserve:      baseReserve,
		QuoteReserve:     quoteReserve,
		BaseTransferFee:  baseMint.TransferFeeForEpoch(epoch),
		QuoteTransferFee: quoteMint.TransferFeeForEpoch(epoch),
		BaseDecimals:     baseMint.Decimals,
		QuoteDecimals:    quoteMint.Decimals,
		Epoch:            epoch,
	}, nil
}

func (l *Loader) recordLatency(method string, d time.Duration) {
	if l.recorder != nil {
		l.recorder.RecordRPCLatency(method, d)
	}
}

func (l *Loader) recordLoad(pool PoolConfig, snap Snapshot, err error) {
	if l.recorder == nil {
		return
	}
	key := pool.Address.String()
	l.recorder.RecordSnapshotLoad(key, err == nil)
	if err == nil {
		l.recorder.UpdatePoolReserves(key, snap.BaseReserve, snap.QuoteReserve)
		l.recorder.UpdateTransferFees(key, snap.BaseTransferFee.BasisPoints, snap.QuoteTransferFee.BasisPoints)
	}
}
