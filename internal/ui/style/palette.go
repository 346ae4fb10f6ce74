package style

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Buy side
	Red     = lipgloss.Color("#FF5555") // Sell side / errors
	Blue    = lipgloss.Color("#3B82F6") // Info

	Base02 = lipgloss.Color("#262831") // Darker background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	Buy  lipgloss.Color
	Sell lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Buy:  Green,
		Sell: Red,
	}
}

// QuoteStyles — стили карточки котировки.
type QuoteStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Bound     lipgloss.Style
	Fee       lipgloss.Style
	Buy       lipgloss.Style
	Sell      lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// NewQuoteStyles creates quote card styles with the given palette
func NewQuoteStyles(palette Palette) QuoteStyles {
	return QuoteStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Width(14),

		Value: lipgloss.NewStyle().
			Foreground(palette.Text),

		Bound: lipgloss.NewStyle().
			Foreground(palette.Info).
			Bold(true),

		Fee: lipgloss.NewStyle().
			Foreground(palette.Warning),

		Buy: lipgloss.NewStyle().
			Foreground(palette.Buy).
			Bold(true),

		Sell: lipgloss.NewStyle().
			Foreground(palette.Sell).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),
	}
}
