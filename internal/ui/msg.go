package ui

import (
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
)

// Tea message types for UI communication

// SnapshotLoadedMsg carries the result of a pool reload
type SnapshotLoadedMsg struct {
	Market *market.Market
	Err    error
}

