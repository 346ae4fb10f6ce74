// =============================
// File: internal/amm/calculator/stable.go
// =============================
package calculator

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// StableCoin — реестр признанных стабильных активов.
type StableCoin uint8

const (
	WSOL StableCoin = iota
	USDC
	USDT
)

var (
	WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

// StableCoins lists every recognised stable asset.
var StableCoins = []StableCoin{WSOL, USDC, USDT}

// Mint returns the mint of the stable asset.
func (s StableCoin) Mint() solana.PublicKey {
	switch s {
	case WSOL:
		return WSOLMint
	case USDC:
		return USDCMint
	case USDT:
		return USDTMint
	default:
		return solana.PublicKey{}
	}
}

func (s StableCoin) String() string {
	switch s {
	case WSOL:
		return "WSOL"
	case USDC:
		return "USDC"
	case USDT:
		return "USDT"
	default:
		return fmt.Sprintf("StableCoin(%d)", uint8(s))
	}
}

// StableCoinFromMint ищет стабильный актив по адресу минта.
func StableCoinFromMint(mint solana.PublicKey) (StableCoin, bool) {
	for _, s := range StableCoins {
		if s.Mint().Equals(mint) {
			return s, true
		}
	}
	return 0, false
}

// IsStable reports whether mint is a recognised stable asset.
func IsStable(mint solana.PublicKey) bool {
	_, ok := StableCoinFromMint(mint)
	return ok
}

// IsNative reports whether mint is the native stable asset (WSOL).
func IsNative(mint solana.PublicKey) bool {
	return mint.Equals(WSOLMint)
}
