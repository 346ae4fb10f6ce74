// =============================
// File: internal/amm/calculator/constant_product.go
// =============================
package calculator

import (
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

// ConstantProduct implements the x*y=k curve with pool fee, protocol fee and
// buy/sell tax. Every fee is rounded up, the output is rounded down.
type ConstantProduct struct{}

var _ Curve = ConstantProduct{}

// sides разрешает, на какой ноге берутся налог и протокольная комиссия.
func (p SwapParams) sides() (tax TradeSide, protocol TradeSide, err error) {
	if tax, err = p.TaxationMode.Side(p.Direction); err != nil {
		return SideNone, SideNone, err
	}
	if protocol, err = p.ProtocolFeeDirection.Side(p.Direction); err != nil {
		return SideNone, SideNone, err
	}
	return tax, protocol, nil
}

// taxOn returns ceil(amount * bps / 10_000) when side matches, otherwise 0.
func taxOn(amount number.Amount128, bps uint64, side, want TradeSide) (number.Amount128, error) {
	if side != want {
		return number.Zero(), nil
	}
	return number.MulDivCeil(amount, number.FromUint64(bps), number.FromUint64(TenThousand))
}

// protocolFeeOn returns the protocol fee on amount when side matches.
func protocolFeeOn(amount number.Amount128, rate FeeRate, side, want TradeSide) (number.Amount128, error) {
	if side != want {
		return number.Zero(), nil
	}
	return rate.apply(amount)
}

// subAll последовательно вычитает deductions из amount с проверкой.
func subAll(step string, amount number.Amount128, deductions ...number.Amount128) (number.Amount128, error) {
	var err error
	for _, d := range deductions {
		if amount, err = amount.CheckedSub(d); err != nil {
			return number.Zero(), StepError(step, err)
		}
	}
	return amount, nil
}

// addAll суммирует слагаемые с проверкой переполнения.
func addAll(step string, amount number.Amount128, terms ...number.Amount128) (number.Amount128, error) {
	var err error
	for _, t := range terms {
		if amount, err = amount.CheckedAdd(t); err != nil {
			return number.Zero(), StepError(step, err)
		}
	}
	return amount, nil
}

// SwapIn считает результат свапа с точным входом.
func (ConstantProduct) SwapIn(p SwapParams) (*SwapInResult, error) {
	taxSide, protoSide, err := p.sides()
	if err != nil {
		return nil, err
	}

	amountIn := number.FromUint64(p.Amount)

	poolFee, err := p.SwapFee.apply(amountIn)
	if err != nil {
		return nil, StepError("swap_fee", err)
	}
	taxIn, err := taxOn(amountIn, p.BuyTax, taxSide, SideBuy)
	if err != nil {
		return nil, StepError("tax_in", err)
	}
	protoIn, err := protocolFeeOn(amountIn, p.ProtocolFee, protoSide, SideBuy)
	if err != nil {
		return nil, StepError("protocol_fee_in", err)
	}

	amountInNet, err := subAll("amount_in_net", amountIn, poolFee, taxIn, protoIn)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := p.reserves()
	// out = floor(reserve_out * in_net / (reserve_in + in_net))
	denominator, err := reserveIn.CheckedAdd(amountInNet)
	if err != nil {
		return nil, StepError("curve_denominator", err)
	}
	amountOut, err := number.MulDivFloor(reserveOut, amountInNet, denominator)
	if err != nil {
		return nil, StepError("amount_out", err)
	}

	taxOut, err := taxOn(amountOut, p.SellTax, taxSide, SideSell)
	if err != nil {
		return nil, StepError("tax_out", err)
	}
	protoOut, err := protocolFeeOn(amountOut, p.ProtocolFee, protoSide, SideSell)
	if err != nil {
		return nil, StepError("protocol_fee_out", err)
	}

	amountOutNet, err := subAll("amount_out_net", amountOut, taxOut, protoOut)
	if err != nil {
		return nil, err
	}

	return &SwapInResult{
		AmountInBeforeFees:  amountIn,
		AmountInAfterFees:   amountInNet,
		AmountOutBeforeFees: amountOut,
		AmountOutAfterFees:  amountOutNet,
		SwapFee:             poolFee,
		TaxOnInput:          taxIn,
		TaxOnOutput:         taxOut,
		ProtocolFeeOnInput:  protoIn,
		ProtocolFeeOnOutput: protoOut,
	}, nil
}

// SwapOut считает вход, необходимый для получения p.Amount на выходе.
// Налог и протокольная комиссия на выходе считаются от запрошенной суммы,
// а не от итоговой брутто-суммы.
func (ConstantProduct) SwapOut(p SwapParams) (*SwapOutResult, error) {
	taxSide, protoSide, err := p.sides()
	if err != nil {
		return nil, err
	}

	amountOut := number.FromUint64(p.Amount)

	protoOut, err := protocolFeeOn(amountOut, p.ProtocolFee, protoSide, SideSell)
	if err != nil {
		return nil, StepError("protocol_fee_out", err)
	}
	taxOut, err := taxOn(amountOut, p.SellTax, taxSide, SideSell)
	if err != nil {
		return nil, StepError("tax_out", err)
	}

	outGross, err := addAll("amount_out_gross", amountOut, protoOut, taxOut)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := p.reserves()
	if outGross.Cmp(reserveOut) >= 0 {
		return nil, newError(KindReserveExhausted, "curve_denominator")
	}
	denominator, err := reserveOut.CheckedSub(outGross)
	if err != nil {
		return nil, StepError("curve_denominator", err)
	}
	// in = ceil(reserve_in * out_gross / (reserve_out - out_gross))
	amountIn, err := number.MulDivCeil(reserveIn, outGross, denominator)
	if err != nil {
		return nil, StepError("amount_in", err)
	}

	poolFee, err := p.SwapFee.apply(amountIn)
	if err != nil {
		return nil, StepError("swap_fee", err)
	}
	protoIn, err := protocolFeeOn(amountIn, p.ProtocolFee, protoSide, SideBuy)
	if err != nil {
		return nil, StepError("protocol_fee_in", err)
	}
	taxIn, err := taxOn(amountIn, p.BuyTax, taxSide, SideBuy)
	if err != nil {
		return nil, StepError("tax_in", err)
	}

	amountInGross, err := addAll("amount_in_gross", amountIn, protoIn, taxIn, poolFee)
	if err != nil {
		return nil, err
	}

	return &SwapOutResult{
		AmountInBeforeFees:  amountIn,
		AmountInAfterFees:   amountInGross,
		AmountOutBeforeFees: amountOut,
		AmountOutAfterFees:  outGross,
		SwapFee:             poolFee,
		TaxOnInput:          taxIn,
		TaxOnOutput:         taxOut,
		ProtocolFeeOnInput:  protoIn,
		ProtocolFeeOnOutput: protoOut,
	}, nil
}
