package ui

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/calculator"
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
	"github.com/rovshanmuradov/cpamm-quoter/internal/ui/style"
)

var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrTooManyDecimals  = errors.New("amount has more decimal places than the mint")
	ErrAmountOutOfRange = errors.New("amount does not fit into u64")
)

// Leg — сторона пула, с которой пользователь платит.
type Leg uint8

const (
	LegQuote Leg = iota
	LegBase
)

// ParseLeg accepts "base" or "quote".
func ParseLeg(s string) (Leg, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base":
		return LegBase, nil
	case "quote":
		return LegQuote, nil
	default:
		return 0, fmt.Errorf("unknown input leg %q", s)
	}
}

func (l Leg) Flip() Leg {
	if l == LegBase {
		return LegQuote
	}
	return LegBase
}

// Direction is the swap direction when paying with l.
func (l Leg) Direction() calculator.SwapDirection {
	if l == LegBase {
		return calculator.Base2Quote
	}
	return calculator.Quote2Base
}

func (l Leg) String() string {
	if l == LegBase {
		return "base"
	}
	return "quote"
}

// BuildRequest собирает запрос: input — минт стороны leg, output — противоположный.
func BuildRequest(m *market.Market, input Leg, mode market.SwapMode, amount, slippageBps uint64) market.QuoteRequest {
	pool := m.Pool()
	req := market.QuoteRequest{
		InputMint:   pool.QuoteMint,
		OutputMint:  pool.BaseMint,
		Amount:      amount,
		Mode:        mode,
		SlippageBps: slippageBps,
	}
	if input == LegBase {
		req.InputMint, req.OutputMint = pool.BaseMint, pool.QuoteMint
	}
	return req
}

// FixedMint returns the mint whose amount the request pins: input for ExactIn, output for ExactOut.
func FixedMint(req market.QuoteRequest) solana.PublicKey {
	if req.Mode == market.ExactOut {
		return req.OutputMint
	}
	return req.InputMint
}

// FormatAmount переводит сырые единицы в десятичную строку без потери точности.
func FormatAmount(raw uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

// ParseAmount converts a human amount like "1.25" into raw units.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	bi := raw.BigInt()
	if !bi.IsUint64() {
		return 0, ErrAmountOutOfRange
	}
	return bi.Uint64(), nil
}

// FormatBps renders basis points as a percentage.
func FormatBps(bps uint64) string {
	return decimal.New(int64(bps), -2).String() + "%"
}

// Symbol returns a short label for mint.
func Symbol(mint solana.PublicKey) string {
	if s, ok := calculator.StableCoinFromMint(mint); ok {
		return s.String()
	}
	str := mint.String()
	if len(str) <= 8 {
		return str
	}
	return str[:4] + ".." + str[len(str)-4:]
}

// Renderer рисует котировки в lipgloss.
type Renderer struct {
	styles style.QuoteStyles
}

func NewRenderer() *Renderer {
	return &Renderer{styles: style.NewQuoteStyles(style.DefaultPalette())}
}

func (r *Renderer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, r.styles.Label.Render(label), value)
}

func (r *Renderer) amount(m *market.Market, raw uint64, mint solana.PublicKey) string {
	return r.styles.Value.Render(FormatAmount(raw, m.Decimals(mint)) + " " + Symbol(mint))
}

func (r *Renderer) side(m *market.Market, d calculator.SwapDirection) string {
	side, err := m.Pool().TaxationMode.Side(d)
	if err != nil {
		return r.styles.Muted.Render(d.String())
	}
	switch side {
	case calculator.SideBuy:
		return r.styles.Buy.Render("BUY") + r.styles.Muted.Render(" "+d.String())
	case calculator.SideSell:
		return r.styles.Sell.Render("SELL") + r.styles.Muted.Render(" "+d.String())
	default:
		return r.styles.Muted.Render(d.String())
	}
}

// Title renders the pool header line.
func (r *Renderer) Title(m *market.Market) string {
	pool := m.Pool()
	return r.styles.Title.Render(Symbol(pool.BaseMint)+"/"+Symbol(pool.QuoteMint)) +
		r.styles.Muted.Render("  "+m.Label())
}

// Quote renders the full breakdown of q.
func (r *Renderer) Quote(m *market.Market, req market.QuoteRequest, q *market.MarketQuote) string {
	snap := m.Snapshot()
	pool := m.Pool()

	boundLabel, boundMint := "Min out", req.OutputMint
	if q.Mode == market.ExactOut {
		boundLabel, boundMint = "Max in", req.InputMint
	}

	rows := []string{
		r.Title(m),
		r.row("Side", r.side(m, q.Direction)),
		r.row("Mode", r.styles.Value.Render(q.Mode.String())),
		r.row("You pay", r.amount(m, q.InAmount, req.InputMint)),
		r.row("You receive", r.amount(m, q.OutAmount, req.OutputMint)),
		r.row(boundLabel, r.styles.Bound.Render(FormatAmount(q.Bound, m.Decimals(boundMint))+" "+Symbol(boundMint))+
			r.styles.Muted.Render("  slippage "+FormatBps(req.SlippageBps))),
		r.row("Fees", r.styles.Fee.Render(FormatAmount(q.FeeAmount, m.Decimals(q.FeeMint))+" "+Symbol(q.FeeMint))),
		r.row("Reserves", r.styles.Muted.Render(
			FormatAmount(snap.BaseReserve, snap.BaseDecimals)+" "+Symbol(pool.BaseMint)+" / "+
				FormatAmount(snap.QuoteReserve, snap.QuoteDecimals)+" "+Symbol(pool.QuoteMint))),
	}
	return r.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Error renders a failed quote.
func (r *Renderer) Error(err error) string {
	return r.styles.Error.Render("✗ " + err.Error())
}
