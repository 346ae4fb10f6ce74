// =============================
// File: internal/amm/calculator/curve.go
// =============================
package calculator

import (
	"errors"
	"fmt"
)

// Curve — функция ценообразования пула.
type Curve interface {
	SwapIn(p SwapParams) (*SwapInResult, error)
	SwapOut(p SwapParams) (*SwapOutResult, error)
}

// CurveType selects a Curve implementation from configuration.
type CurveType string

const (
	CurveConstantProduct CurveType = "constant_product"
)

var ErrUnknownCurve = errors.New("unknown curve type")

// NewCurve возвращает реализацию кривой по её типу.
func NewCurve(t CurveType) (Curve, error) {
	switch t {
	case CurveConstantProduct:
		return ConstantProduct{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, string(t))
	}
}
