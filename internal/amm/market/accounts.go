// =============================
// File: internal/amm/market/accounts.go
// =============================
package market

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/quote"
)

const (
	TokenAccountAmountOffset = 64
	TokenAccountAmountSize   = 8

	// MintBaseSize — размер базовой структуры минта SPL Token.
	MintBaseSize = 82
	// AccountTypeOffset: у Token-2022 расширения идут после байта типа аккаунта,
	// который стоит на позиции размера токен-аккаунта.
	AccountTypeOffset = 165

	accountTypeMint uint8 = 1

	extensionUninitialized  uint16 = 0
	extensionTransferFee    uint16 = 1
	transferFeeConfigLength        = 108
)

var Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

var (
	ErrInvalidTokenAccount = errors.New("invalid token account data")
	ErrInvalidMintAccount  = errors.New("invalid mint account data")
	ErrUnknownTokenProgram = errors.New("mint is not owned by a token program")
)

// ParseTokenAccountAmount читает баланс из данных SPL токен-аккаунта.
func ParseTokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < TokenAccountAmountOffset+TokenAccountAmountSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidTokenAccount, len(data))
	}
	dec := bin.NewBinDecoder(data)
	if err := dec.SkipBytes(TokenAccountAmountOffset); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	amount, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTokenAccount, err)
	}
	return amount, nil
}

// Mint is a decoded SPL Token or Token-2022 mint account.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
	Owner           solana.PublicKey
	// TransferFee is nil when the mint has no transfer fee extension.
	TransferFee *quote.TransferFeeConfig
}

// ParseMint декодирует минт и, для Token-2022, расширение TransferFeeConfig.
func ParseMint(data []byte, owner solana.PublicKey) (*Mint, error) {
	if !owner.Equals(solana.TokenProgramID) && !owner.Equals(Token2022ProgramID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTokenProgram, owner)
	}
	if len(data) < MintBaseSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidMintAccount, len(data))
	}

	dec := bin.NewBinDecoder(data)
	m := &Mint{Owner: owner}

	var err error
	if m.MintAuthority, err = readOptionalKey(dec); err != nil {
		return nil, err
	}
	if m.Supply, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: supply: %v", ErrInvalidMintAccount, err)
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("%w: decimals: %v", ErrInvalidMintAccount, err)
	}
	if m.IsInitialized, err = dec.ReadBool(); err != nil {
		return nil, fmt.Errorf("%w: initialized: %v", ErrInvalidMintAccount, err)
	}
	if m.FreezeAuthority, err = readOptionalKey(dec); err != nil {
		return nil, err
	}

	// У классического SPL Token расширений нет.
	if owner.Equals(solana.TokenProgramID) || len(data) <= AccountTypeOffset {
		return m, nil
	}

	if err := dec.SkipBytes(uint(AccountTypeOffset - MintBaseSize)); err != nil {
		return nil, fmt.Errorf("%w: padding: %v", ErrInvalidMintAccount, err)
	}
	accountType, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: account type: %v", ErrInvalidMintAccount, err)
	}
	if accountType != accountTypeMint {
		return nil, fmt.Errorf("%w: account type %d", ErrInvalidMintAccount, accountType)
	}

	for dec.Remaining() >= 4 {
		extType, err := dec.ReadUint16(bin.LE)
		if err != nil {
			return nil, fmt.Errorf("%w: extension type: %v", ErrInvalidMintAccount, err)
		}
		length, err := dec.ReadUint16(bin.LE)
		if err != nil {
			return nil, fmt.Errorf("%w: extension length: %v", ErrInvalidMintAccount, err)
		}
		if extType == extensionUninitialized {
			break
		}
		if int(length) > dec.Remaining() {
			return nil, fmt.Errorf("%w: extension %d overruns data", ErrInvalidMintAccount, extType)
		}
		if extType != extensionTransferFee {
			if err := dec.SkipBytes(uint(length)); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidMintAccount, err)
			}
			continue
		}
		if length != transferFeeConfigLength {
			return nil, fmt.Errorf("%w: transfer fee config length %d", ErrInvalidMintAccount, length)
		}
		cfg, err := readTransferFeeConfig(dec)
		if err != nil {
			return nil, err
		}
		m.TransferFee = cfg
	}
	return m, nil
}

// TransferFeeForEpoch returns the transfer fee active in epoch, zero if none.
func (m *Mint) TransferFeeForEpoch(epoch uint64) quote.TransferFee {
	if m == nil || m.TransferFee == nil {
		return quote.TransferFee{}
	}
	return m.TransferFee.EpochFee(epoch)
}

// readOptionalKey читает COption<Pubkey>: u32 тег и 32 байта ключа.
func readOptionalKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	tag, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, fmt.Errorf("%w: option tag: %v", ErrInvalidMintAccount, err)
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: option key: %v", ErrInvalidMintAccount, err)
	}
	if tag == 0 {
		return nil, nil
	}
	key := solana.PublicKeyFromBytes(raw)
	return &key, nil
}

func readTransferFeeConfig(dec *bin.Decoder) (*quote.TransferFeeConfig, error) {
	// config authority + withdraw authority
	if err := dec.SkipBytes(2 * solana.PublicKeyLength); err != nil {
		return nil, fmt.Errorf("%w: fee authorities: %v", ErrInvalidMintAccount, err)
	}
	// withheld amount
	if _, err := dec.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: withheld amount: %v", ErrInvalidMintAccount, err)
	}
	older, err := readTransferFee(dec)
	if err != nil {
		return nil, err
	}
	newer, err := readTransferFee(dec)
	if err != nil {
		return nil, err
	}
	return &quote.TransferFeeConfig{Older: older, Newer: newer}, nil
}

func readTransferFee(dec *bin.Decoder) (quote.TransferFee, error) {
	var f quote.TransferFee
	var err error
	if f.Epoch, err = dec.ReadUint64(bin.LE); err != nil {
		return f, fmt.Errorf("%w: fee epoch: %v", ErrInvalidMintAccount, err)
	}
	if f.MaximumFee, err = dec.ReadUint64(bin.LE); err != nil {
		return f, fmt.Errorf("%w: maximum fee: %v", ErrInvalidMintAccount, err)
	}
	if f.BasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return f, fmt.Errorf("%w: basis points: %v", ErrInvalidMintAccount, err)
	}
	return f, nil
}
