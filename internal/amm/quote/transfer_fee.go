// =============================
// File: internal/amm/quote/transfer_fee.go
// =============================
package quote

import (
	"errors"
	"fmt"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

// MaxFeeBasisPoints — 100% в базисных пунктах.
const MaxFeeBasisPoints uint16 = 10_000

var ErrInvalidBasisPoints = errors.New("transfer fee basis points above 10000")

// TransferFee — комиссия за перевод токена (расширение Token-2022).
// Нулевое значение означает отсутствие комиссии.
type TransferFee struct {
	Epoch       uint64
	MaximumFee  uint64
	BasisPoints uint16
}

func (f TransferFee) Validate() error {
	if f.BasisPoints > MaxFeeBasisPoints {
		return fmt.Errorf("%w: %d", ErrInvalidBasisPoints, f.BasisPoints)
	}
	return nil
}

// CalculateFee returns the fee withheld when preFee tokens are transferred.
func (f TransferFee) CalculateFee(preFee number.Amount128) (number.Amount128, error) {
	if f.BasisPoints == 0 || preFee.IsZero() {
		return number.Zero(), nil
	}
	if err := f.Validate(); err != nil {
		return number.Zero(), err
	}
	fee, err := number.MulDivCeil(preFee, number.FromUint64(uint64(f.BasisPoints)), number.FromUint64(uint64(MaxFeeBasisPoints)))
	if err != nil {
		return number.Zero(), err
	}
	return number.Min(fee, number.FromUint64(f.MaximumFee)), nil
}

// CalculatePreFeeAmount возвращает сумму, которую нужно отправить,
// чтобы получатель получил postFee.
func (f TransferFee) CalculatePreFeeAmount(postFee number.Amount128) (number.Amount128, error) {
	if err := f.Validate(); err != nil {
		return number.Zero(), err
	}
	maxFee := number.FromUint64(f.MaximumFee)
	switch {
	case f.BasisPoints == 0:
		return postFee, nil
	case postFee.IsZero():
		return number.Zero(), nil
	case f.BasisPoints == MaxFeeBasisPoints:
		return postFee.CheckedAdd(maxFee)
	}

	denominator := number.FromUint64(uint64(MaxFeeBasisPoints - f.BasisPoints))
	raw, err := number.MulDivCeil(postFee, number.FromUint64(uint64(MaxFeeBasisPoints)), denominator)
	if err != nil {
		return number.Zero(), err
	}
	fee, err := raw.CheckedSub(postFee)
	if err != nil {
		return number.Zero(), err
	}
	if fee.Cmp(maxFee) >= 0 {
		return postFee.CheckedAdd(maxFee)
	}
	return raw, nil
}

// CalculateInverseFee returns the fee that is withheld when sending enough
// tokens for the recipient to get postFee.
func (f TransferFee) CalculateInverseFee(postFee number.Amount128) (number.Amount128, error) {
	pre, err := f.CalculatePreFeeAmount(postFee)
	if err != nil {
		return number.Zero(), err
	}
	return f.CalculateFee(pre)
}

// TransferFeeConfig хранит старую и новую комиссию, новая вступает в силу с Newer.Epoch.
type TransferFeeConfig struct {
	Older TransferFee
	Newer TransferFee
}

// EpochFee returns the fee active in epoch.
func (c TransferFeeConfig) EpochFee(epoch uint64) TransferFee {
	if epoch >= c.Newer.Epoch {
		return c.Newer
	}
	return c.Older
}
