package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
)

var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings, zero deltas
	Green   = lipgloss.Color("#2AFFAA") // Incoming funds / success
	Red     = lipgloss.Color("#FF5555") // Outgoing funds / errors
	Blue    = lipgloss.Color("#3B82F6") // Info / links
	Purple  = lipgloss.Color("#8B5CF6") // Secondary accent

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base02 = lipgloss.Color("#262831") // Darker background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
	Base1  = lipgloss.Color("#B4BCC8") // Secondary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	// Balance change colors
	Positive lipgloss.Color
	Negative lipgloss.Color
	Neutral  lipgloss.Color

	// Top balance row
	Highlight lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		BackgroundAlt: Base02,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Positive: Green,
		Negative: Red,
		Neutral:  Yellow,

		Highlight: Purple,
	}
}

// SignStyle returns the text style for a balance change of the given sign.
func SignStyle(class portfolio.SignClass) lipgloss.Style {
	p := DefaultPalette()
	s := lipgloss.NewStyle()
	switch class {
	case portfolio.SignPositive:
		return s.Foreground(p.Positive)
	case portfolio.SignNegative:
		return s.Foreground(p.Negative)
	case portfolio.SignZero:
		return s.Foreground(p.Neutral)
	default:
		return s.Foreground(p.TextMuted)
	}
}
