// =============================
// File: internal/amm/number/amount.go
// =============================
package number

import (
	"errors"
	"math"
	"math/big"

	"lukechampine.com/uint128"
)

// Ошибки арифметики. Все операции возвращают ошибку вместо переполнения.
var (
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrUnderflow    = errors.New("arithmetic underflow")
	ErrDivideByZero = errors.New("division by zero")
)

// Amount128 — беззнаковое 128-битное число для промежуточных вычислений.
// Значение неизменяемо, все операции возвращают новый экземпляр.
type Amount128 struct {
	v uint128.Uint128
}

// Zero returns 0.
func Zero() Amount128 {
	return Amount128{}
}

// FromUint64 расширяет 64-битное значение до Amount128.
func FromUint64(x uint64) Amount128 {
	return Amount128{v: uint128.From64(x)}
}

// FromBig converts a non-negative big.Int that fits into 128 bits.
func FromBig(x *big.Int) (Amount128, error) {
	if x == nil || x.Sign() < 0 {
		return Amount128{}, ErrUnderflow
	}
	if x.BitLen() > 128 {
		return Amount128{}, ErrOverflow
	}
	return Amount128{v: uint128.FromBig(x)}, nil
}

// MaxAmount returns 2^128-1.
func MaxAmount() Amount128 {
	return Amount128{v: uint128.Max}
}

// CheckedAdd returns a+b or ErrOverflow.
func (a Amount128) CheckedAdd(b Amount128) (Amount128, error) {
	sum := a.v.AddWrap(b.v)
	if sum.Cmp(a.v) < 0 {
		return Amount128{}, ErrOverflow
	}
	return Amount128{v: sum}, nil
}

// CheckedSub returns a-b or ErrUnderflow when b > a.
func (a Amount128) CheckedSub(b Amount128) (Amount128, error) {
	if a.v.Cmp(b.v) < 0 {
		return Amount128{}, ErrUnderflow
	}
	return Amount128{v: a.v.SubWrap(b.v)}, nil
}

// CheckedMul returns a*b or ErrOverflow.
func (a Amount128) CheckedMul(b Amount128) (Amount128, error) {
	if a.v.IsZero() || b.v.IsZero() {
		return Amount128{}, nil
	}
	prod := a.v.MulWrap(b.v)
	// prod / a == b только если переполнения не было
	if !prod.Div(a.v).Equals(b.v) {
		return Amount128{}, ErrOverflow
	}
	return Amount128{v: prod}, nil
}

// CheckedDiv returns floor(a/b).
func (a Amount128) CheckedDiv(b Amount128) (Amount128, error) {
	if b.v.IsZero() {
		return Amount128{}, ErrDivideByZero
	}
	return Amount128{v: a.v.Div(b.v)}, nil
}

// CheckedCeilDiv возвращает наименьшее целое >= a/b.
// Считается через частное и остаток, поэтому не может переполниться.
func (a Amount128) CheckedCeilDiv(b Amount128) (Amount128, error) {
	if b.v.IsZero() {
		return Amount128{}, ErrDivideByZero
	}
	q, r := a.v.QuoRem(b.v)
	if !r.IsZero() {
		q = q.AddWrap(uint128.From64(1))
	}
	return Amount128{v: q}, nil
}

// AsUint64 narrows the value to 64 bits.
func (a Amount128) AsUint64() (uint64, error) {
	if a.v.Hi != 0 {
		return 0, ErrOverflow
	}
	return a.v.Lo, nil
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount128) Cmp(b Amount128) int {
	return a.v.Cmp(b.v)
}

func (a Amount128) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount128) Equals(b Amount128) bool {
	return a.v.Equals(b.v)
}

// Min returns the smaller of a and b.
func Min(a, b Amount128) Amount128 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Big returns a copy as *big.Int.
func (a Amount128) Big() *big.Int {
	return a.v.Big()
}

func (a Amount128) String() string {
	return a.v.String()
}

// MulDivCeil computes ceil(a*num/den) with every step checked.
func MulDivCeil(a, num, den Amount128) (Amount128, error) {
	prod, err := a.CheckedMul(num)
	if err != nil {
		return Amount128{}, err
	}
	return prod.CheckedCeilDiv(den)
}

// MulDivFloor computes floor(a*num/den).
func MulDivFloor(a, num, den Amount128) (Amount128, error) {
	prod, err := a.CheckedMul(num)
	if err != nil {
		return Amount128{}, err
	}
	return prod.CheckedDiv(den)
}

// MaxUint64 is the largest value AsUint64 accepts.
var MaxUint64 = FromUint64(math.MaxUint64)
