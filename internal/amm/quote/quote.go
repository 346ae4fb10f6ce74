// =============================
// File: internal/amm/quote/quote.go
// =============================
package quote

import (
	"fmt"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/calculator"
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

// Params — входные данные котировки: параметры свапа, комиссии за перевод
// по обеим ногам пула и допустимое проскальзывание в базисных пунктах.
type Params struct {
	calculator.SwapParams
	BaseTransferFee  TransferFee
	QuoteTransferFee TransferFee
	SlippageBps      uint64
}

// legFees returns the (input, output) transfer fees for the swap direction.
func (p Params) legFees() (TransferFee, TransferFee) {
	if p.Direction == calculator.Base2Quote {
		return p.BaseTransferFee, p.QuoteTransferFee
	}
	return p.QuoteTransferFee, p.BaseTransferFee
}

// ExactInQuote is the result of quoting a fixed input amount.
type ExactInQuote struct {
	MinimumAmountOut  uint64
	AmountOut         uint64
	TotalFees         uint64
	InputTransferFee  uint64
	OutputTransferFee uint64
	Swap              *calculator.SwapInResult
}

// ExactOutQuote is the result of quoting a fixed output amount.
type ExactOutQuote struct {
	MaximumAmountIn   uint64
	AmountIn          uint64
	TotalFees         uint64
	InputTransferFee  uint64
	OutputTransferFee uint64
	Swap              *calculator.SwapOutResult
}

// Quoter оборачивает кривую поправками на комиссии перевода и проскальзывание.
type Quoter struct {
	curve calculator.Curve
}

func NewQuoter(curve calculator.Curve) *Quoter {
	return &Quoter{curve: curve}
}

// ExactIn quotes p.Amount of input tokens.
func (q *Quoter) ExactIn(p Params) (*ExactInQuote, error) {
	inFee, outFee := p.legFees()

	amountIn := number.FromUint64(p.Amount)
	inTransferFee, err := inFee.CalculateFee(amountIn)
	if err != nil {
		return nil, calculator.StepError("input_transfer_fee", err)
	}
	netIn, err := amountIn.CheckedSub(inTransferFee)
	if err != nil {
		return nil, calculator.StepError("amount_in_after_transfer_fee", err)
	}
	// netIn <= amountIn, сужение безопасно
	netIn64, _ := netIn.AsUint64()

	sp := p.SwapParams
	sp.Amount = netIn64
	res, err := q.curve.SwapIn(sp)
	if err != nil {
		return nil, fmt.Errorf("swap in: %w", err)
	}

	outTransferFee, err := outFee.CalculateFee(res.AmountOutAfterFees)
	if err != nil {
		return nil, calculator.StepError("output_transfer_fee", err)
	}
	received, err := res.AmountOutAfterFees.CheckedSub(outTransferFee)
	if err != nil {
		return nil, calculator.StepError("amount_out_after_transfer_fee", err)
	}

	slippage, err := number.MulDivCeil(received, number.FromUint64(p.SlippageBps), number.FromUint64(calculator.TenThousand))
	if err != nil {
		return nil, calculator.StepError("slippage_amount", err)
	}
	minOut, err := received.CheckedSub(slippage)
	if err != nil {
		return nil, calculator.StepError("minimum_amount_out", err)
	}

	total, err := totalFees(p.TaxationMode, p.Direction, res.SwapFee,
		[]number.Amount128{res.ProtocolFeeOnInput, res.TaxOnInput, res.SwapFee},
		[]number.Amount128{res.ProtocolFeeOnOutput, res.TaxOnOutput})
	if err != nil {
		return nil, err
	}

	out := &ExactInQuote{Swap: res}
	if err := narrow(
		narrowing{"minimum_amount_out", minOut, &out.MinimumAmountOut},
		narrowing{"amount_out", received, &out.AmountOut},
		narrowing{"total_fees", total, &out.TotalFees},
		narrowing{"input_transfer_fee", inTransferFee, &out.InputTransferFee},
		narrowing{"output_transfer_fee", outTransferFee, &out.OutputTransferFee},
	); err != nil {
		return nil, err
	}
	return out, nil
}

// ExactOut quotes the input needed for the recipient to get p.Amount.
func (q *Quoter) ExactOut(p Params) (*ExactOutQuote, error) {
	inFee, outFee := p.legFees()

	amountOut := number.FromUint64(p.Amount)
	outTransferFee, err := outFee.CalculateInverseFee(amountOut)
	if err != nil {
		return nil, calculator.StepError("output_transfer_fee", err)
	}
	target, err := amountOut.CheckedAdd(outTransferFee)
	if err != nil {
		return nil, calculator.StepError("amount_out_with_transfer_fee", err)
	}
	target64, err := target.AsUint64()
	if err != nil {
		return nil, calculator.StepError("amount_out_with_transfer_fee", err)
	}

	sp := p.SwapParams
	sp.Amount = target64
	res, err := q.curve.SwapOut(sp)
	if err != nil {
		return nil, fmt.Errorf("swap out: %w", err)
	}

	inTransferFee, err := inFee.CalculateInverseFee(res.AmountInAfterFees)
	if err != nil {
		return nil, calculator.StepError("input_transfer_fee", err)
	}
	required, err := res.AmountInAfterFees.CheckedAdd(inTransferFee)
	if err != nil {
		return nil, calculator.StepError("amount_in_with_transfer_fee", err)
	}

	slippage, err := number.MulDivCeil(required, number.FromUint64(p.SlippageBps), number.FromUint64(calculator.TenThousand))
	if err != nil {
		return nil, calculator.StepError("slippage_amount", err)
	}
	maxIn, err := required.CheckedAdd(slippage)
	if err != nil {
		return nil, calculator.StepError("maximum_amount_in", err)
	}

	total, err := totalFees(p.TaxationMode, p.Direction, res.SwapFee,
		[]number.Amount128{res.ProtocolFeeOnInput, res.TaxOnInput, res.SwapFee},
		[]number.Amount128{res.ProtocolFeeOnOutput, res.TaxOnOutput})
	if err != nil {
		return nil, err
	}

	out := &ExactOutQuote{Swap: res}
	if err := narrow(
		narrowing{"maximum_amount_in", maxIn, &out.MaximumAmountIn},
		narrowing{"amount_in", required, &out.AmountIn},
		narrowing{"total_fees", total, &out.TotalFees},
		narrowing{"input_transfer_fee", inTransferFee, &out.InputTransferFee},
		narrowing{"output_transfer_fee", outTransferFee, &out.OutputTransferFee},
	); err != nil {
		return nil, err
	}
	return out, nil
}

// totalFees классифицирует свап как покупку или продажу по режиму налога.
// Покупка: комиссии на входе. Продажа: комиссии на выходе. Иначе комиссия пула.
func totalFees(mode calculator.TaxationMode, d calculator.SwapDirection, poolFee number.Amount128, buy, sell []number.Amount128) (number.Amount128, error) {
	side, err := mode.Side(d)
	if err != nil {
		return number.Zero(), err
	}
	var terms []number.Amount128
	switch side {
	case calculator.SideBuy:
		terms = buy
	case calculator.SideSell:
		terms = sell
	default:
		return poolFee, nil
	}
	total := number.Zero()
	for _, t := range terms {
		if total, err = total.CheckedAdd(t); err != nil {
			return number.Zero(), calculator.StepError("total_fees", err)
		}
	}
	return total, nil
}

type narrowing struct {
	name string
	v    number.Amount128
	dst  *uint64
}

func narrow(items ...narrowing) error {
	for _, it := range items {
		v, err := it.v.AsUint64()
		if err != nil {
			return &calculator.CalcError{Kind: calculator.KindOverflow, Step: it.name, Err: err}
		}
		*it.dst = v
	}
	return nil
}
