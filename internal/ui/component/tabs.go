package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// TabBar renders the tab strip with the function key of each tab.
type TabBar struct {
	active ui.Route
	width  int
}

// NewTabBar creates a tab bar with Home active.
func NewTabBar() *TabBar {
	return &TabBar{active: ui.RouteHome}
}

// SetActive marks route as the active tab.
func (t *TabBar) SetActive(route ui.Route) *TabBar {
	if route.IsTab() {
		t.active = route
	}
	return t
}

// SetWidth sets the bar width
func (t *TabBar) SetWidth(width int) *TabBar {
	t.width = width
	return t
}

// View renders the tab bar
func (t *TabBar) View() string {
	items := make([]string, 0, len(ui.Tabs))
	for i, route := range ui.Tabs {
		label := fmt.Sprintf("F%d %s", i+1, route.Title())
		if route == t.active {
			items = append(items, style.ActiveTabStyle.Render(label))
		} else {
			items = append(items, style.TabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	if t.width > 0 {
		return lipgloss.NewStyle().Width(t.width).Render(bar)
	}
	return bar
}
