package market

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/quote"
)

func TestParseTokenAccountAmount(t *testing.T) {
	amount, err := ParseTokenAccountAmount(tokenAccountData(987_654_321))
	require.NoError(t, err)
	assert.Equal(t, uint64(987_654_321), amount)

	_, err = ParseTokenAccountAmount(make([]byte, 70))
	assert.ErrorIs(t, err, ErrInvalidTokenAccount)
}

func TestParseMint_Classic(t *testing.T) {
	m, err := ParseMint(mintData(6, 42), solana.TokenProgramID)
	require.NoError(t, err)

	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, uint64(42), m.Supply)
	assert.True(t, m.IsInitialized)
	require.NotNil(t, m.MintAuthority)
	assert.Equal(t, poolAddress, *m.MintAuthority)
	assert.Nil(t, m.FreezeAuthority)
	assert.Nil(t, m.TransferFee)
	assert.Equal(t, quote.TransferFee{}, m.TransferFeeForEpoch(10))
}

func TestParseMint_Token2022TransferFee(t *testing.T) {
	cfg := quote.TransferFeeConfig{
		Older: quote.TransferFee{Epoch: 10, MaximumFee: 1_000, BasisPoints: 50},
		Newer: quote.TransferFee{Epoch: 600, MaximumFee: 2_000, BasisPoints: 125},
	}
	m, err := ParseMint(mint2022Data(9, cfg), Token2022ProgramID)
	require.NoError(t, err)

	assert.Equal(t, uint8(9), m.Decimals)
	require.NotNil(t, m.TransferFee)
	assert.Equal(t, cfg, *m.TransferFee)
	assert.Equal(t, cfg.Older, m.TransferFeeForEpoch(599))
	assert.Equal(t, cfg.Newer, m.TransferFeeForEpoch(600))
}

func TestParseMint_Token2022WithoutExtensions(t *testing.T) {
	m, err := ParseMint(mintData(9, 1), Token2022ProgramID)
	require.NoError(t, err)
	assert.Nil(t, m.TransferFee)
}

func TestParseMint_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		owner solana.PublicKey
		want  error
	}{
		{name: "foreign owner", data: mintData(6, 1), owner: solana.SystemProgramID, want: ErrUnknownTokenProgram},
		{name: "short data", data: make([]byte, 40), owner: solana.TokenProgramID, want: ErrInvalidMintAccount},
		{
			name: "wrong account type",
			data: func() []byte {
				d := mint2022Data(6, quote.TransferFeeConfig{})
				d[AccountTypeOffset] = 2
				return d
			}(),
			owner: Token2022ProgramID,
			want:  ErrInvalidMintAccount,
		},
		{
			name: "truncated extension",
			data: func() []byte {
				d := mint2022Data(6, quote.TransferFeeConfig{})
				return d[:len(d)-20]
			}(),
			owner: Token2022ProgramID,
			want:  ErrInvalidMintAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMint(tt.data, tt.owner)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
