package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

const helpSeparator = " • "

// HelpBar – строка подсказок по клавишам внизу экрана.
type HelpBar struct {
	bindings []key.Binding
	width    int
	compact  bool

	keyStyle       lipgloss.Style
	descStyle      lipgloss.Style
	sepStyle       lipgloss.Style
	containerStyle lipgloss.Style
}

// NewHelpBar creates a help bar with the default palette.
func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()

	return &HelpBar{
		width: 80,

		keyStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),
		descStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
		sepStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings replaces the displayed bindings.
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.bindings = bindings
	return h
}

// SetWidth sets the help bar width.
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	return h
}

// SetCompact switches to keys without descriptions, for narrow terminals.
func (h *HelpBar) SetCompact(compact bool) *HelpBar {
	h.compact = compact
	return h
}

// View renders enabled bindings, wrapping onto extra lines when needed.
func (h *HelpBar) View() string {
	items := h.items()
	if len(items) == 0 {
		return ""
	}

	separator := h.sepStyle.Render(helpSeparator)
	content := h.wrap(items, h.width-4, separator)
	return h.containerStyle.Width(h.width).Render(content)
}

func (h *HelpBar) items() []string {
	items := make([]string, 0, len(h.bindings))
	for _, b := range h.bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		if help.Key == "" || help.Desc == "" {
			continue
		}
		item := h.keyStyle.Render(help.Key)
		if !h.compact {
			item += " " + h.descStyle.Render(help.Desc)
		}
		items = append(items, item)
	}
	return items
}

func (h *HelpBar) wrap(items []string, maxWidth int, separator string) string {
	var lines []string
	var line []string
	lineWidth := 0
	sepWidth := lipgloss.Width(separator)

	for _, item := range items {
		w := lipgloss.Width(item) + sepWidth
		if lineWidth+w > maxWidth && len(line) > 0 {
			lines = append(lines, strings.Join(line, separator))
			line = nil
			lineWidth = 0
		}
		line = append(line, item)
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, separator))
	}
	return strings.Join(lines, "\n")
}
