// =============================
// File: internal/amm/calculator/errors.go
// =============================
package calculator

import (
	"errors"
	"fmt"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

// ErrorKind классифицирует ошибки расчёта свапа.
type ErrorKind uint8

const (
	KindOverflow ErrorKind = iota + 1
	KindDivideByZero
	KindDirectionMismatch
	KindReserveExhausted
	KindInvalidMode
)

// Sentinel-ошибки для errors.Is. Каждой ErrorKind соответствует одна.
var (
	ErrOverflow          = errors.New("overflow")
	ErrDivideByZero      = errors.New("divide by zero")
	ErrDirectionMismatch = errors.New("mint pair does not match pool")
	ErrReserveExhausted  = errors.New("requested output exhausts reserve")
	ErrInvalidMode       = errors.New("invalid mode")
)

func (k ErrorKind) String() string {
	switch k {
	case KindOverflow:
		return "Overflow"
	case KindDivideByZero:
		return "DivideByZero"
	case KindDirectionMismatch:
		return "DirectionMismatch"
	case KindReserveExhausted:
		return "ReserveExhausted"
	case KindInvalidMode:
		return "InvalidMode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindOverflow:
		return ErrOverflow
	case KindDivideByZero:
		return ErrDivideByZero
	case KindDirectionMismatch:
		return ErrDirectionMismatch
	case KindReserveExhausted:
		return ErrReserveExhausted
	case KindInvalidMode:
		return ErrInvalidMode
	default:
		return nil
	}
}

// CalcError — типизированная ошибка с именем шага, на котором упал расчёт.
type CalcError struct {
	Kind ErrorKind
	Step string
	Err  error
}

func (e *CalcError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Step, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Step)
}

func (e *CalcError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind.
func (e *CalcError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind ErrorKind, step string) *CalcError {
	return &CalcError{Kind: kind, Step: step}
}

// StepError переводит ошибку арифметики в CalcError для шага step.
func StepError(step string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CalcError
	if errors.As(err, &ce) {
		return err
	}
	kind := KindOverflow
	if errors.Is(err, number.ErrDivideByZero) {
		kind = KindDivideByZero
	}
	return &CalcError{Kind: kind, Step: step, Err: err}
}

// KindOf returns the kind of a calculation error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// StepOf returns the failing step name of a calculation error.
func StepOf(err error) string {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Step
	}
	return ""
}
