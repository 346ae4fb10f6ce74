// =============================
// File: internal/amm/calculator/protocol_fee.go
// =============================
package calculator

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProtocolSwapFeeDirection — нога, в которой взимается протокольная комиссия.
type ProtocolSwapFeeDirection uint8

const (
	ProtocolFeeNone ProtocolSwapFeeDirection = iota
	ProtocolFeeBase
	ProtocolFeeQuote
)

// ResolveProtocolSwapFeeDirection determines the protocol fee leg for one swap.
// When both legs are stable the fee follows the input leg of the swap.
func ResolveProtocolSwapFeeDirection(base, quote solana.PublicKey, d SwapDirection) (ProtocolSwapFeeDirection, error) {
	if err := d.Validate(); err != nil {
		return ProtocolFeeNone, err
	}
	baseStable, quoteStable := IsStable(base), IsStable(quote)
	switch {
	case baseStable && quoteStable:
		if d == Base2Quote {
			return ProtocolFeeBase, nil
		}
		return ProtocolFeeQuote, nil
	case baseStable:
		return ProtocolFeeBase, nil
	case quoteStable:
		return ProtocolFeeQuote, nil
	default:
		return ProtocolFeeNone, nil
	}
}

// Side returns whether the protocol fee is taken on input (buy) or output (sell).
func (p ProtocolSwapFeeDirection) Side(d SwapDirection) (TradeSide, error) {
	switch p {
	case ProtocolFeeNone:
		return legSide(false, false, d)
	case ProtocolFeeBase:
		return legSide(true, false, d)
	case ProtocolFeeQuote:
		return legSide(false, true, d)
	default:
		return SideNone, &CalcError{Kind: KindInvalidMode, Step: "protocol_fee_side", Err: fmt.Errorf("unknown protocol fee direction %d", uint8(p))}
	}
}

func (p ProtocolSwapFeeDirection) String() string {
	switch p {
	case ProtocolFeeNone:
		return "None"
	case ProtocolFeeBase:
		return "Base"
	case ProtocolFeeQuote:
		return "Quote"
	default:
		return fmt.Sprintf("ProtocolSwapFeeDirection(%d)", uint8(p))
	}
}
