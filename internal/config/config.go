// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/calculator"
	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
)

type Config struct {
	RPCURL       string       `mapstructure:"rpc_url"`
	RPCTimeoutMs int          `mapstructure:"rpc_timeout_ms"`
	RetryDelayMs int          `mapstructure:"retry_delay_ms"`
	Retries      int          `mapstructure:"retries"`
	DebugLogging bool         `mapstructure:"debug_logging"`
	LogFile      string       `mapstructure:"log_file"`
	SlippageBps  uint64       `mapstructure:"slippage_bps"`
	Curve        string       `mapstructure:"curve"`
	Pool         PoolSettings `mapstructure:"pool"`
}

// PoolSettings — параметры пула в виде, в котором они лежат в конфиге.
type PoolSettings struct {
	Address                    string `mapstructure:"address"`
	BaseMint                   string `mapstructure:"base_mint"`
	QuoteMint                  string `mapstructure:"quote_mint"`
	BaseVault                  string `mapstructure:"base_vault"`
	QuoteVault                 string `mapstructure:"quote_vault"`
	SwapFeeNumerator           uint64 `mapstructure:"swap_fee_numerator"`
	SwapFeeDenominator         uint64 `mapstructure:"swap_fee_denominator"`
	ProtocolSwapFeeNumerator   uint64 `mapstructure:"protocol_swap_fee_numerator"`
	ProtocolSwapFeeDenominator uint64 `mapstructure:"protocol_swap_fee_denominator"`
	BuyTax                     uint64 `mapstructure:"buy_tax"`
	SellTax                    uint64 `mapstructure:"sell_tax"`
	// TaxationMode переопределяет режим, выведенный из минтов: none, base, quote.
	TaxationMode string `mapstructure:"taxation_mode"`
}

const (
	DefaultRPCURL                     = "https://api.mainnet-beta.solana.com"
	DefaultRPCTimeoutMs               = 5000
	DefaultRetryDelayMs               = 1000
	DefaultRetries                    = 3
	DefaultSlippageBps                = 50
	DefaultLogFile                    = "quoter.log"
	DefaultSwapFeeDenominator         = 10_000
	DefaultProtocolSwapFeeDenominator = 10_000
)

const envPrefix = "CPAMM_QUOTER"

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"rpc_url":                            DefaultRPCURL,
		"rpc_timeout_ms":                     DefaultRPCTimeoutMs,
		"retry_delay_ms":                     DefaultRetryDelayMs,
		"retries":                            DefaultRetries,
		"slippage_bps":                       DefaultSlippageBps,
		"log_file":                           DefaultLogFile,
		"curve":                              string(calculator.CurveConstantProduct),
		"pool.swap_fee_denominator":          DefaultSwapFeeDenominator,
		"pool.protocol_swap_fee_denominator": DefaultProtocolSwapFeeDenominator,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is empty")
	}
	if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	if _, err := calculator.NewCurve(calculator.CurveType(cfg.Curve)); err != nil {
		return err
	}
	if _, err := cfg.Pool.ToPoolConfig(calculator.CurveType(cfg.Curve)); err != nil {
		return err
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.RPCTimeoutMs <= 0 {
		return errors.New("invalid rpc_timeout_ms")
	}
	if cfg.RetryDelayMs < 0 {
		return errors.New("invalid retry_delay_ms")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.SlippageBps > calculator.TenThousand {
		return errors.New("slippage_bps above 10000")
	}
	if cfg.Pool.SwapFeeDenominator == 0 {
		return errors.New("pool.swap_fee_denominator must be positive")
	}
	if cfg.Pool.ProtocolSwapFeeDenominator == 0 {
		return errors.New("pool.protocol_swap_fee_denominator must be positive")
	}
	if cfg.Pool.BuyTax > calculator.TenThousand {
		return errors.New("pool.buy_tax above 10000")
	}
	if cfg.Pool.SellTax > calculator.TenThousand {
		return errors.New("pool.sell_tax above 10000")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

// loadEnvironmentVariables позволяет переопределить любой ключ через
// CPAMM_QUOTER_<KEY>, например CPAMM_QUOTER_POOL_BUY_TAX.
func loadEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// RPCTimeout returns the per-call RPC timeout.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutMs) * time.Millisecond
}

// RetryDelay returns the initial retry backoff.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// LoaderOptions maps the retry settings onto the snapshot loader.
func (c *Config) LoaderOptions() market.LoaderOptions {
	return market.LoaderOptions{
		MaxRetries: c.Retries,
		RetryDelay: c.RetryDelay(),
		Timeout:    c.RPCTimeout(),
	}
}

// PoolConfig разбирает настройки пула в market.PoolConfig.
func (c *Config) PoolConfig() (market.PoolConfig, error) {
	return c.Pool.ToPoolConfig(calculator.CurveType(c.Curve))
}

// ToPoolConfig parses keys and resolves the taxation mode.
func (p PoolSettings) ToPoolConfig(curve calculator.CurveType) (market.PoolConfig, error) {
	var out market.PoolConfig
	keys := []struct {
		name string
		raw  string
		dst  *solana.PublicKey
	}{
		{"pool.address", p.Address, &out.Address},
		{"pool.base_mint", p.BaseMint, &out.BaseMint},
		{"pool.quote_mint", p.QuoteMint, &out.QuoteMint},
		{"pool.base_vault", p.BaseVault, &out.BaseVault},
		{"pool.quote_vault", p.QuoteVault, &out.QuoteVault},
	}

	for _, k := range keys {
		if k.raw == "" {
			return market.PoolConfig{}, fmt.Errorf("%s is empty", k.name)
		}
		pk, err := solana.PublicKeyFromBase58(k.raw)
		if err != nil {
			return market.PoolConfig{}, fmt.Errorf("invalid %s: %w", k.name, err)
		}
		*k.dst = pk
	}
	if out.BaseMint.Equals(out.QuoteMint) {
		return market.PoolConfig{}, errors.New("pool.base_mint equals pool.quote_mint")
	}

	out.SwapFee = calculator.FeeRate{Numerator: p.SwapFeeNumerator, Denominator: p.SwapFeeDenominator}
	out.ProtocolFee = calculator.FeeRate{Numerator: p.ProtocolSwapFeeNumerator, Denominator: p.ProtocolSwapFeeDenominator}
	out.BuyTax = p.BuyTax
	out.SellTax = p.SellTax
	out.Curve = curve

	if err := out.SwapFee.Validate(); err != nil {
		return market.PoolConfig{}, fmt.Errorf("pool swap fee: %w", err)
	}
	if err := out.ProtocolFee.Validate(); err != nil {
		return market.PoolConfig{}, fmt.Errorf("pool protocol fee: %w", err)
	}

	if p.TaxationMode == "" {
		out.TaxationMode = calculator.TaxationModeFromMints(out.BaseMint, out.QuoteMint)
	} else {
		mode, err := calculator.ParseTaxationMode(p.TaxationMode)
		if err != nil {
			return market.PoolConfig{}, err
		}
		out.TaxationMode = mode
	}
	return out, nil
}
