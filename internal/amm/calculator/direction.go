// =============================
// File: internal/amm/calculator/direction.go
// =============================
package calculator

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapDirection — направление свапа относительно ног пула.
type SwapDirection uint8

const (
	// Quote2Base: пользователь отдаёт quote и получает base.
	Quote2Base SwapDirection = 1
	// Base2Quote: пользователь отдаёт base и получает quote.
	Base2Quote SwapDirection = 2
)

// ParseSwapDirection определяет направление по паре (source, destination).
// Любая другая пара, кроме (base, quote) и (quote, base), является ошибкой.
func ParseSwapDirection(source, destination, base, quote solana.PublicKey) (SwapDirection, error) {
	switch {
	case source.Equals(base) && destination.Equals(quote):
		return Base2Quote, nil
	case source.Equals(quote) && destination.Equals(base):
		return Quote2Base, nil
	default:
		return 0, &CalcError{
			Kind: KindDirectionMismatch,
			Step: "parse_direction",
			Err:  fmt.Errorf("%s -> %s not in pool %s/%s", source, destination, base, quote),
		}
	}
}

func (d SwapDirection) Validate() error {
	switch d {
	case Quote2Base, Base2Quote:
		return nil
	default:
		return &CalcError{Kind: KindInvalidMode, Step: "swap_direction", Err: fmt.Errorf("unknown direction %d", uint8(d))}
	}
}

// Reverse returns the opposite direction.
func (d SwapDirection) Reverse() SwapDirection {
	switch d {
	case Base2Quote:
		return Quote2Base
	case Quote2Base:
		return Base2Quote
	default:
		return d
	}
}

func (d SwapDirection) String() string {
	switch d {
	case Quote2Base:
		return "Quote2Base"
	case Base2Quote:
		return "Base2Quote"
	default:
		return fmt.Sprintf("SwapDirection(%d)", uint8(d))
	}
}

// TradeSide says which leg of a trade a deduction applies to.
type TradeSide uint8

const (
	SideNone TradeSide = iota
	// SideBuy: списывается со входа.
	SideBuy
	// SideSell: списывается с выхода.
	SideSell
)

func (s TradeSide) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "none"
	}
}

// legSide — общая таблица истинности для режима налога и направления
// протокольной комиссии: нога совпадает со входом свапа => buy, с выходом => sell.
func legSide(isBase, isQuote bool, d SwapDirection) (TradeSide, error) {
	if err := d.Validate(); err != nil {
		return SideNone, err
	}
	switch {
	case !isBase && !isQuote:
		return SideNone, nil
	case isBase && d == Base2Quote, isQuote && d == Quote2Base:
		return SideBuy, nil
	default:
		return SideSell, nil
	}
}
