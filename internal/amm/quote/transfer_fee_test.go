package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/number"
)

func TestTransferFee_CalculateFee(t *testing.T) {
	tests := []struct {
		name   string
		fee    TransferFee
		amount uint64
		want   uint64
	}{
		{name: "zero bps", fee: TransferFee{MaximumFee: 100}, amount: 1000, want: 0},
		{name: "zero amount", fee: TransferFee{BasisPoints: 100, MaximumFee: 100}, amount: 0, want: 0},
		{name: "rounds up", fee: TransferFee{BasisPoints: 1, MaximumFee: 100}, amount: 1, want: 1},
		{name: "exact", fee: TransferFee{BasisPoints: 100, MaximumFee: 100}, amount: 1000, want: 10},
		{name: "capped", fee: TransferFee{BasisPoints: 500, MaximumFee: 7}, amount: 1000, want: 7},
		{name: "full fee", fee: TransferFee{BasisPoints: 10_000, MaximumFee: 5000}, amount: 1000, want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fee.CalculateFee(number.FromUint64(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, u64(t, got))
		})
	}
}

func TestTransferFee_CalculatePreFeeAmount(t *testing.T) {
	tests := []struct {
		name    string
		fee     TransferFee
		post    uint64
		wantPre uint64
		wantFee uint64
	}{
		{name: "zero bps", fee: TransferFee{MaximumFee: 100}, post: 990, wantPre: 990, wantFee: 0},
		{name: "zero post", fee: TransferFee{BasisPoints: 100, MaximumFee: 100}, post: 0, wantPre: 0, wantFee: 0},
		{name: "uncapped", fee: TransferFee{BasisPoints: 100, MaximumFee: 1_000}, post: 990, wantPre: 1000, wantFee: 10},
		{name: "capped", fee: TransferFee{BasisPoints: 100, MaximumFee: 5}, post: 990, wantPre: 995, wantFee: 5},
		{name: "full fee uses maximum", fee: TransferFee{BasisPoints: 10_000, MaximumFee: 50}, post: 990, wantPre: 1040, wantFee: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pre, err := tt.fee.CalculatePreFeeAmount(number.FromUint64(tt.post))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPre, u64(t, pre))

			inv, err := tt.fee.CalculateInverseFee(number.FromUint64(tt.post))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, u64(t, inv))
		})
	}
}

func TestTransferFee_PreFeeRoundTrip(t *testing.T) {
	fee := TransferFee{BasisPoints: 137, MaximumFee: 1_000_000_000}
	for _, post := range []uint64{1, 7, 99, 1000, 123_456, 9_999_999} {
		pre, err := fee.CalculatePreFeeAmount(number.FromUint64(post))
		require.NoError(t, err)
		withheld, err := fee.CalculateFee(pre)
		require.NoError(t, err)
		received, err := pre.CheckedSub(withheld)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, u64(t, received), post, "post=%d", post)
	}
}

func TestTransferFee_InvalidBasisPoints(t *testing.T) {
	fee := TransferFee{BasisPoints: 10_001}
	_, err := fee.CalculateFee(number.FromUint64(10))
	assert.ErrorIs(t, err, ErrInvalidBasisPoints)
	_, err = fee.CalculatePreFeeAmount(number.FromUint64(10))
	assert.ErrorIs(t, err, ErrInvalidBasisPoints)
}

func TestTransferFeeConfig_EpochFee(t *testing.T) {
	cfg := TransferFeeConfig{
		Older: TransferFee{Epoch: 0, BasisPoints: 50, MaximumFee: 10},
		Newer: TransferFee{Epoch: 100, BasisPoints: 75, MaximumFee: 20},
	}
	assert.Equal(t, cfg.Older, cfg.EpochFee(99))
	assert.Equal(t, cfg.Newer, cfg.EpochFee(100))
	assert.Equal(t, cfg.Newer, cfg.EpochFee(500))
}
