// =============================
// File: internal/amm/calculator/taxation.go
// =============================
package calculator

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// TaxationMode — нога пула, в которой взимается налог на покупку/продажу.
type TaxationMode uint8

const (
	TaxationNone  TaxationMode = 0
	TaxationBase  TaxationMode = 1
	TaxationQuote TaxationMode = 2
)

// TaxationModeFromUint8 decodes a stored mode code.
func TaxationModeFromUint8(v uint8) (TaxationMode, error) {
	switch TaxationMode(v) {
	case TaxationNone, TaxationBase, TaxationQuote:
		return TaxationMode(v), nil
	default:
		return 0, &CalcError{Kind: KindInvalidMode, Step: "taxation_mode", Err: fmt.Errorf("unknown code %d", v)}
	}
}

func (m TaxationMode) Uint8() uint8 {
	return uint8(m)
}

// TaxationModeFromMints выбирает облагаемую ногу по минтам пула.
// Если обе ноги стабильные: quote при WSOL в quote, иначе base при WSOL в base,
// иначе quote.
func TaxationModeFromMints(base, quote solana.PublicKey) TaxationMode {
	baseStable, quoteStable := IsStable(base), IsStable(quote)
	switch {
	case baseStable && quoteStable:
		if IsNative(quote) {
			return TaxationQuote
		}
		if IsNative(base) {
			return TaxationBase
		}
		return TaxationQuote
	case baseStable:
		return TaxationBase
	case quoteStable:
		return TaxationQuote
	default:
		return TaxationNone
	}
}

// Side returns whether the tax is taken on input (buy) or output (sell).
func (m TaxationMode) Side(d SwapDirection) (TradeSide, error) {
	switch m {
	case TaxationNone:
		return legSide(false, false, d)
	case TaxationBase:
		return legSide(true, false, d)
	case TaxationQuote:
		return legSide(false, true, d)
	default:
		return SideNone, &CalcError{Kind: KindInvalidMode, Step: "taxation_side", Err: fmt.Errorf("unknown taxation mode %d", uint8(m))}
	}
}

// FeeMint возвращает минт, в котором номинированы налоги.
// Для TaxationNone используется входной минт свапа.
func (m TaxationMode) FeeMint(base, quote, input solana.PublicKey) solana.PublicKey {
	switch m {
	case TaxationBase:
		return base
	case TaxationQuote:
		return quote
	default:
		return input
	}
}

func (m TaxationMode) String() string {
	switch m {
	case TaxationNone:
		return "None"
	case TaxationBase:
		return "Base"
	case TaxationQuote:
		return "Quote"
	default:
		return fmt.Sprintf("TaxationMode(%d)", uint8(m))
	}
}

// ParseTaxationMode accepts the config spelling of a mode.
func ParseTaxationMode(s string) (TaxationMode, error) {
	switch s {
	case "none", "None":
		return TaxationNone, nil
	case "base", "Base":
		return TaxationBase, nil
	case "quote", "Quote":
		return TaxationQuote, nil
	default:
		return 0, &CalcError{Kind: KindInvalidMode, Step: "taxation_mode", Err: fmt.Errorf("unknown taxation mode %q", s)}
	}
}
