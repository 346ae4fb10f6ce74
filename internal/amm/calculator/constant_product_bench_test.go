// internal/amm/calculator/constant_product_bench_test.go
package calculator

import (
	"testing"
)

func benchParams() SwapParams {
	p := baseParams()
	p.Amount = 1_000_000_000
	p.BaseReserve = 5_000_000_000_000_000
	p.QuoteReserve = 800_000_000_000
	p.Direction = Quote2Base
	p.ProtocolFeeDirection = ProtocolFeeQuote
	p.TaxationMode = TaxationQuote
	p.BuyTax = 300
	p.SellTax = 500
	return p
}

// BenchmarkSwapIn измеряет производительность расчёта exact-in
func BenchmarkSwapIn(b *testing.B) {
	p := benchParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (ConstantProduct{}).SwapIn(p); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSwapOut измеряет производительность расчёта exact-out
func BenchmarkSwapOut(b *testing.B) {
	p := benchParams()
	p.Amount = 1_000_000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (ConstantProduct{}).SwapOut(p); err != nil {
			b.Fatal(err)
		}
	}
}
