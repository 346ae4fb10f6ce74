package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
)

type stubRefresher struct {
	snapshot market.Snapshot
	err      error
	calls    int
}

func (s *stubRefresher) Refresh(_ context.Context, m *market.Market) (*market.Market, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return m.WithSnapshot(s.snapshot), nil
}

type quoteRecord struct {
	mode, direction string
	success         bool
}

type stubRecorder struct {
	records []quoteRecord
}

func (s *stubRecorder) RecordQuote(mode, direction string, _ time.Duration, success bool) {
	s.records = append(s.records, quoteRecord{mode, direction, success})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel возвращает модель после первой загрузки снимка.
func loadedModel(t *testing.T, opts ModelOptions) (*QuoteModel, *stubRefresher) {
	t.Helper()
	loader := &stubRefresher{snapshot: testSnapshot}
	m := NewQuoteModel(newTestMarket(t), loader, zap.NewNop(), opts)
	require.True(t, m.Loading())

	msg := m.reload()()
	m.Update(msg)
	require.False(t, m.Loading())
	require.NoError(t, m.Err())
	return m, loader
}

func TestQuoteModel_TypingQuotes(t *testing.T) {
	rec := &stubRecorder{}
	m, _ := loadedModel(t, ModelOptions{SlippageBps: 50, Recorder: rec})

	m.Update(runes("0.1"))

	q, req := m.Quote()
	require.NotNil(t, q)
	assert.Equal(t, uint64(100_000_000), req.Amount)
	assert.Equal(t, uint64(50), req.SlippageBps)

	want, err := m.market.Quote(req)
	require.NoError(t, err)
	assert.Equal(t, want, q)

	require.NotEmpty(t, rec.records)
	last := rec.records[len(rec.records)-1]
	assert.Equal(t, quoteRecord{"ExactIn", "Quote2Base", true}, last)

	assert.Contains(t, m.View(), "You receive")
}

func TestQuoteModel_ToggleModeAndDirection(t *testing.T) {
	m, _ := loadedModel(t, ModelOptions{})
	m.Update(runes("0.1"))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, market.ExactOut, m.Mode())
	q, req := m.Quote()
	require.NotNil(t, q)
	// фиксирован выход (BONK, 5 знаков)
	assert.Equal(t, bonkMint, req.OutputMint)
	assert.Equal(t, uint64(10_000), req.Amount)
	assert.Equal(t, uint64(10_000), q.OutAmount)

	m.Update(runes("d"))
	assert.Equal(t, LegBase, m.Input())
	q, req = m.Quote()
	require.NotNil(t, q)
	assert.Equal(t, bonkMint, req.InputMint)
	assert.Equal(t, uint64(100_000_000), req.Amount)
	assert.Equal(t, "0.1", m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, market.ExactIn, m.Mode())
}

func TestQuoteModel_InvalidAmount(t *testing.T) {
	m, _ := loadedModel(t, ModelOptions{})
	m.Update(runes("0.0000000001"))

	q, _ := m.Quote()
	assert.Nil(t, q)
	assert.ErrorIs(t, m.Err(), ErrTooManyDecimals)
	assert.Contains(t, m.View(), ErrTooManyDecimals.Error())
}

func TestQuoteModel_Reload(t *testing.T) {
	m, loader := loadedModel(t, ModelOptions{})

	_, cmd := m.Update(runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())

	// повторное нажатие во время загрузки игнорируется
	_, again := m.Update(runes("r"))
	assert.Nil(t, again)

	loader.err = errors.New("rpc down")
	m.Update(cmd())
	assert.Equal(t, 2, loader.calls)
	assert.False(t, m.Loading())
	assert.EqualError(t, m.Err(), "rpc down")
	assert.Contains(t, m.View(), "rpc down")
}

func TestQuoteModel_QuoteBeforeSnapshot(t *testing.T) {
	m := NewQuoteModel(newTestMarket(t), &stubRefresher{}, zap.NewNop(), ModelOptions{})
	m.Update(runes("1"))
	assert.ErrorIs(t, m.Err(), market.ErrEmptyReserves)
	assert.Contains(t, m.View(), "loading pool state")
}

func TestQuoteModel_Quit(t *testing.T) {
	m, _ := loadedModel(t, ModelOptions{})
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	}
}
