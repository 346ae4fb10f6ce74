package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/cpamm-quoter/internal/amm/market"
)

// Refresher reloads the on-chain state of a market.
type Refresher interface {
	Refresh(ctx context.Context, m *market.Market) (*market.Market, error)
}

// QuoteRecorder принимает метрики котировок; реализуется metrics.Collector.
type QuoteRecorder interface {
	RecordQuote(mode, direction string, duration time.Duration, success bool)
}

// ModelOptions настраивает экран котировки.
type ModelOptions struct {
	SlippageBps uint64
	Mode        market.SwapMode
	Input       Leg
	Timeout     time.Duration
	Recorder    QuoteRecorder
}

// QuoteModel is the interactive quote screen.
type QuoteModel struct {
	market   *market.Market
	loader   Refresher
	logger   *zap.Logger
	recorder QuoteRecorder
	renderer *Renderer

	input textinput.Model
	keys  KeyMap
	help  help.Model

	mode     market.SwapMode
	leg      Leg
	slippage uint64
	timeout  time.Duration

	loading bool
	request market.QuoteRequest
	quote   *market.MarketQuote
	err     error
	width   int
}

// NewQuoteModel creates the screen for m. The first snapshot is loaded by Init.
func NewQuoteModel(m *market.Market, loader Refresher, logger *zap.Logger, opts ModelOptions) *QuoteModel {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	input := textinput.New()
	input.Placeholder = "amount"
	input.CharLimit = 32
	input.Width = 24
	input.Focus()

	return &QuoteModel{
		market:   m,
		loader:   loader,
		logger:   logger.Named("ui"),
		recorder: opts.Recorder,
		renderer: NewRenderer(),
		input:    input,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		mode:     opts.Mode,
		leg:      opts.Input,
		slippage: opts.SlippageBps,
		timeout:  opts.Timeout,
		loading:  true,
	}
}

// Init starts the cursor blink and the first snapshot load
func (m *QuoteModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.reload())
}

func (m *QuoteModel) reload() tea.Cmd {
	current, loader, timeout := m.market, m.loader, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		next, err := loader.Refresh(ctx, current)
		return SnapshotLoadedMsg{Market: next, Err: err}
	}
}

// Update handles keys, reload results and input changes
func (m *QuoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case SnapshotLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.logger.Error("Snapshot reload failed", zap.Error(msg.Err))
			m.err = msg.Err
			return m, nil
		}
		m.market = msg.Market
		m.err = nil
		m.recompute()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleMode):
			if m.mode == market.ExactIn {
				m.mode = market.ExactOut
			} else {
				m.mode = market.ExactIn
			}
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.FlipDirection):
			m.leg = m.leg.Flip()
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.reload()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.recompute()
	}
	return m, cmd
}

// recompute переоценивает текущий ввод по последнему снимку.
func (m *QuoteModel) recompute() {
	m.quote = nil
	m.err = nil

	text := m.input.Value()
	if text == "" {
		return
	}

	req := BuildRequest(m.market, m.leg, m.mode, 0, m.slippage)
	amount, err := ParseAmount(text, m.market.Decimals(FixedMint(req)))
	if err != nil {
		m.err = err
		return
	}
	req.Amount = amount
	m.request = req

	start := time.Now()
	q, err := m.market.Quote(req)
	if m.recorder != nil {
		m.recorder.RecordQuote(req.Mode.String(), m.leg.Direction().String(), time.Since(start), err == nil)
	}
	if err != nil {
		m.logger.Debug("Quote failed", zap.Error(err), zap.Uint64("amount", amount))
		m.err = err
		return
	}
	m.quote = q
}

// Quote returns the last successful quote and its request.
func (m *QuoteModel) Quote() (*market.MarketQuote, market.QuoteRequest) {
	return m.quote, m.request
}

// Err returns the last reload or quote error.
func (m *QuoteModel) Err() error {
	return m.err
}

func (m *QuoteModel) Mode() market.SwapMode { return m.mode }

func (m *QuoteModel) Input() Leg { return m.leg }

func (m *QuoteModel) Loading() bool { return m.loading }

// View renders the screen
func (m *QuoteModel) View() string {
	req := BuildRequest(m.market, m.leg, m.mode, 0, m.slippage)
	prompt := m.renderer.styles.Label.Render(m.mode.String()) +
		m.renderer.styles.Muted.Render(Symbol(FixedMint(req))+" ")

	sections := []string{
		m.renderer.Title(m.market),
		prompt + m.input.View(),
	}

	switch {
	case m.loading && m.quote == nil:
		sections = append(sections, m.renderer.styles.Muted.Render("loading pool state..."))
	case m.err != nil:
		sections = append(sections, m.renderer.Error(m.err))
	case m.quote != nil:
		sections = append(sections, m.renderer.Quote(m.market, m.request, m.quote))
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
