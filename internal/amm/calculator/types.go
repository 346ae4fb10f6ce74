// =============================
// File: internal/amm/calculator/types.go
// =============================
package calculator

import (
	"fmt"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

// TenThousand is the denominator of tax and slippage basis points.
const TenThousand uint64 = 10_000

// FeeRate is a fee fraction numerator/denominator.
type FeeRate struct {
	Numerator   uint64 `mapstructure:"numerator"`
	Denominator uint64 `mapstructure:"denominator"`
}

func (r FeeRate) Validate() error {
	if r.Denominator == 0 {
		return &CalcError{Kind: KindDivideByZero, Step: "fee_rate"}
	}
	if r.Numerator > r.Denominator {
		return &CalcError{Kind: KindOverflow, Step: "fee_rate", Err: fmt.Errorf("%d/%d exceeds 100%%", r.Numerator, r.Denominator)}
	}
	return nil
}

func (r FeeRate) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// apply returns ceil(amount * num / den).
func (r FeeRate) apply(amount number.Amount128) (number.Amount128, error) {
	return number.MulDivCeil(amount, number.FromUint64(r.Numerator), number.FromUint64(r.Denominator))
}

// SwapParams — снимок пула и параметры одного свапа.
// Amount — вход для SwapIn и желаемый выход для SwapOut.
type SwapParams struct {
	Amount               uint64
	Direction            SwapDirection
	ProtocolFeeDirection ProtocolSwapFeeDirection
	TaxationMode         TaxationMode
	BaseReserve          uint64
	QuoteReserve         uint64
	SwapFee              FeeRate
	ProtocolFee          FeeRate
	// BuyTax и SellTax в базисных пунктах (из 10_000).
	BuyTax  uint64
	SellTax uint64
}

// reserves returns (reserve_in, reserve_out) for the swap direction.
func (p SwapParams) reserves() (number.Amount128, number.Amount128) {
	base, quote := number.FromUint64(p.BaseReserve), number.FromUint64(p.QuoteReserve)
	if p.Direction == Base2Quote {
		return base, quote
	}
	return quote, base
}

// SwapInResult — разбивка результата свапа с точным входом.
type SwapInResult struct {
	AmountInBeforeFees  number.Amount128
	AmountInAfterFees   number.Amount128
	AmountOutBeforeFees number.Amount128
	AmountOutAfterFees  number.Amount128
	SwapFee             number.Amount128
	TaxOnInput          number.Amount128
	TaxOnOutput         number.Amount128
	ProtocolFeeOnInput  number.Amount128
	ProtocolFeeOnOutput number.Amount128
}

// SwapOutResult — разбивка результата свапа с точным выходом.
// AmountOutBeforeFees is the requested net output, AmountOutAfterFees the gross
// amount leaving the pool, AmountInAfterFees what the trader pays.
type SwapOutResult struct {
	AmountInBeforeFees  number.Amount128
	AmountInAfterFees   number.Amount128
	AmountOutBeforeFees number.Amount128
	AmountOutAfterFees  number.Amount128
	SwapFee             number.Amount128
	TaxOnInput          number.Amount128
	TaxOnOutput         number.Amount128
	ProtocolFeeOnInput  number.Amount128
	ProtocolFeeOnOutput number.Amount128
}
