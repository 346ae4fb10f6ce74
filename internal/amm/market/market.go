// =============================
// File: internal/amm/market/market.go
// =============================
package market

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/calculator"
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/quote"
)

// SwapMode — какая сторона свапа зафиксирована.
type SwapMode uint8

const (
	ExactIn SwapMode = iota
	ExactOut
)

func (m SwapMode) String() string {
	switch m {
	case ExactIn:
		return "ExactIn"
	case ExactOut:
		return "ExactOut"
	default:
		return fmt.Sprintf("SwapMode(%d)", uint8(m))
	}
}

// ParseSwapMode accepts "in"/"out" and the full names.
func ParseSwapMode(s string) (SwapMode, error) {
	switch s {
	case "in", "exact_in", "ExactIn":
		return ExactIn, nil
	case "out", "exact_out", "ExactOut":
		return ExactOut, nil
	default:
		return 0, fmt.Errorf("unknown swap mode %q", s)
	}
}

var ErrEmptyReserves = errors.New("pool has empty reserves")

// PoolConfig — статические параметры пула.
type PoolConfig struct {
	Address      solana.PublicKey
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
	BaseVault    solana.PublicKey
	QuoteVault   solana.PublicKey
	SwapFee      calculator.FeeRate
	ProtocolFee  calculator.FeeRate
	BuyTax       uint64
	SellTax      uint64
	TaxationMode calculator.TaxationMode
	Curve        calculator.CurveType
}

// Snapshot — изменяемое состояние пула на момент чтения.
type Snapshot struct {
	BaseReserve      uint64
	QuoteReserve     uint64
	BaseTransferFee  quote.TransferFee
	QuoteTransferFee quote.TransferFee
	BaseDecimals     uint8
	QuoteDecimals    uint8
	Epoch            uint64
}

// QuoteRequest — запрос котировки в терминах минтов.
type QuoteRequest struct {
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64
	Mode        SwapMode
	SlippageBps uint64
}

// MarketQuote is the aggregator-facing quote.
// Bound is the minimum out for ExactIn and the maximum in for ExactOut.
type MarketQuote struct {
	InAmount  uint64
	OutAmount uint64
	Bound     uint64
	FeeAmount uint64
	FeeMint   solana.PublicKey
	Mode      SwapMode
	Direction calculator.SwapDirection
}

// Market — котируемый пул: конфигурация плюс последний снимок состояния.
type Market struct {
	pool     PoolConfig
	snapshot Snapshot
	quoter   *quote.Quoter
}

// NewMarket builds a market without state. Reserves arrive with WithSnapshot.
func NewMarket(pool PoolConfig) (*Market, error) {
	curve, err := calculator.NewCurve(pool.Curve)
	if err != nil {
		return nil, err
	}
	if err := pool.SwapFee.Validate(); err != nil {
		return nil, fmt.Errorf("swap fee: %w", err)
	}
	if err := pool.ProtocolFee.Validate(); err != nil {
		return nil, fmt.Errorf("protocol fee: %w", err)
	}
	if _, err := calculator.TaxationModeFromUint8(pool.TaxationMode.Uint8()); err != nil {
		return nil, err
	}
	return &Market{pool: pool, quoter: quote.NewQuoter(curve)}, nil
}

func (m *Market) Label() string {
	return "cpamm-" + string(m.pool.Curve)
}

func (m *Market) Key() solana.PublicKey {
	return m.pool.Address
}

func (m *Market) Pool() PoolConfig {
	return m.pool
}

func (m *Market) Snapshot() Snapshot {
	return m.snapshot
}

// ReserveMints returns the base and quote mints.
func (m *Market) ReserveMints() []solana.PublicKey {
	return []solana.PublicKey{m.pool.BaseMint, m.pool.QuoteMint}
}

// AccountsToUpdate — аккаунты, из которых собирается снимок, в порядке чтения.
func (m *Market) AccountsToUpdate() []solana.PublicKey {
	return []solana.PublicKey{
		m.pool.BaseVault,
		m.pool.QuoteVault,
		m.pool.BaseMint,
		m.pool.QuoteMint,
	}
}

// WithSnapshot returns a copy of the market with a new state snapshot.
func (m *Market) WithSnapshot(s Snapshot) *Market {
	next := *m
	next.snapshot = s
	return &next
}

// Quote prices req against the current snapshot.
func (m *Market) Quote(req QuoteRequest) (*MarketQuote, error) {
	if m.snapshot.BaseReserve == 0 || m.snapshot.QuoteReserve == 0 {
		return nil, ErrEmptyReserves
	}

	dir, err := calculator.ParseSwapDirection(req.InputMint, req.OutputMint, m.pool.BaseMint, m.pool.QuoteMint)
	if err != nil {
		return nil, err
	}
	protoDir, err := calculator.ResolveProtocolSwapFeeDirection(m.pool.BaseMint, m.pool.QuoteMint, dir)
	if err != nil {
		return nil, err
	}

	params := quote.Params{
		SwapParams: calculator.SwapParams{
			Amount:               req.Amount,
			Direction:            dir,
			ProtocolFeeDirection: protoDir,
			TaxationMode:         m.pool.TaxationMode,
			BaseReserve:          m.snapshot.BaseReserve,
			QuoteReserve:         m.snapshot.QuoteReserve,
			SwapFee:              m.pool.SwapFee,
			ProtocolFee:          m.pool.ProtocolFee,
			BuyTax:               m.pool.BuyTax,
			SellTax:              m.pool.SellTax,
		},
		BaseTransferFee:  m.snapshot.BaseTransferFee,
		QuoteTransferFee: m.snapshot.QuoteTransferFee,
		SlippageBps:      req.SlippageBps,
	}

	out := &MarketQuote{
		Mode:      req.Mode,
		Direction: dir,
		FeeMint:   m.pool.TaxationMode.FeeMint(m.pool.BaseMint, m.pool.QuoteMint, req.InputMint),
	}

	switch req.Mode {
	case ExactIn:
		q, err := m.quoter.ExactIn(params)
		if err != nil {
			return nil, err
		}
		out.InAmount = req.Amount
		out.OutAmount = q.AmountOut
		out.Bound = q.MinimumAmountOut
		out.FeeAmount = q.TotalFees
	case ExactOut:
		q, err := m.quoter.ExactOut(params)
		if err != nil {
			return nil, err
		}
		out.InAmount = q.AmountIn
		out.OutAmount = req.Amount
		out.Bound = q.MaximumAmountIn
		out.FeeAmount = q.TotalFees
	default:
		return nil, fmt.Errorf("unsupported swap mode %s", req.Mode)
	}
	return out, nil
}

// Decimals returns the decimals of mint if it is one of the pool legs.
func (m *Market) Decimals(mint solana.PublicKey) uint8 {
	if mint.Equals(m.pool.BaseMint) {
		return m.snapshot.BaseDecimals
	}
	return m.snapshot.QuoteDecimals
}
