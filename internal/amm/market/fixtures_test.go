package market

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/calculator"
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/quote"
)

var (
	bonkMint    = solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	poolAddress = solana.MustPublicKeyFromBase58("58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2")
	baseVault   = solana.MustPublicKeyFromBase58("DQyrAcCrDXQ7NeoqGgDCZwBvWDcYmFCjSb9JtteuvPpz")
	quoteVault  = solana.MustPublicKeyFromBase58("HLmqeL62xR1QoZ1HKKbXRrdN1p3phKpxRMb2VVopvBBz")
)

func testPool() PoolConfig {
	return PoolConfig{
		Address:      poolAddress,
		BaseMint:     bonkMint,
		QuoteMint:    calculator.WSOLMint,
		BaseVault:    baseVault,
		QuoteVault:   quoteVault,
		SwapFee:      calculator.FeeRate{Numerator: 100, Denominator: 10_000},
		ProtocolFee:  calculator.FeeRate{Numerator: 50, Denominator: 10_000},
		BuyTax:       300,
		SellTax:      500,
		TaxationMode: calculator.TaxationModeFromMints(bonkMint, calculator.WSOLMint),
		Curve:        calculator.CurveConstantProduct,
	}
}

func tokenAccountData(amount uint64) []byte {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[TokenAccountAmountOffset:], amount)
	return data
}

func mintData(decimals uint8, supply uint64) []byte {
	data := make([]byte, MintBaseSize)
	// mint authority: Some(key)
	binary.LittleEndian.PutUint32(data[0:4], 1)
	copy(data[4:36], poolAddress[:])
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	// freeze authority: None
	return data
}

// mint2022Data собирает минт Token-2022 с расширением TransferFeeConfig
// и ещё одним посторонним расширением перед ним.
func mint2022Data(decimals uint8, cfg quote.TransferFeeConfig) []byte {
	data := make([]byte, AccountTypeOffset+1)
	copy(data, mintData(decimals, 1_000_000))
	data[AccountTypeOffset] = accountTypeMint

	// посторонний TLV: тип 3, длина 2
	data = append(data, 3, 0, 2, 0, 0xAA, 0xBB)

	tlv := make([]byte, 4+transferFeeConfigLength)
	binary.LittleEndian.PutUint16(tlv[0:2], extensionTransferFee)
	binary.LittleEndian.PutUint16(tlv[2:4], transferFeeConfigLength)
	off := 4 + 64
	binary.LittleEndian.PutUint64(tlv[off:], 12345) // withheld
	off += 8
	for _, f := range []quote.TransferFee{cfg.Older, cfg.Newer} {
		binary.LittleEndian.PutUint64(tlv[off:], f.Epoch)
		binary.LittleEndian.PutUint64(tlv[off+8:], f.MaximumFee)
		binary.LittleEndian.PutUint16(tlv[off+16:], f.BasisPoints)
		off += 18
	}
	return append(data, tlv...)
}

func account(owner solana.PublicKey, data []byte) *rpc.Account {
	return &rpc.Account{
		Owner: owner,
		Data:  rpc.DataBytesOrJSONFromBytes(data),
	}
}
