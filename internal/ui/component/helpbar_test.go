package component

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func helpBindings() []key.Binding {
	disabled := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	disabled.SetEnabled(false)
	return []key.Binding{
		key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "home")),
		key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "swap")),
		disabled,
		key.NewBinding(key.WithKeys("y")),
	}
}

func TestHelpBarEmpty(t *testing.T) {
	assert.Empty(t, NewHelpBar().View())
}

func TestHelpBarFull(t *testing.T) {
	view := NewHelpBar().SetWidth(80).SetKeyBindings(helpBindings()).View()

	assert.Contains(t, view, "F1")
	assert.Contains(t, view, "home")
	assert.Contains(t, view, "swap")
	assert.NotContains(t, view, "hidden")
}

func TestHelpBarCompactDropsDescriptions(t *testing.T) {
	view := NewHelpBar().SetWidth(80).SetKeyBindings(helpBindings()).SetCompact(true).View()

	assert.Contains(t, view, "F1")
	assert.Contains(t, view, "F2")
	assert.NotContains(t, view, "home")
	assert.NotContains(t, view, "swap")
}

func TestHelpBarWrapsNarrowWidth(t *testing.T) {
	wide := NewHelpBar().SetWidth(80).SetKeyBindings(helpBindings()).View()
	narrow := NewHelpBar().SetWidth(14).SetKeyBindings(helpBindings()).View()

	assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	assert.Contains(t, narrow, "home")
	assert.Contains(t, narrow, "swap")
}
