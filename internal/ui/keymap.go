package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Tabs
	Home     key.Binding
	Swap     key.Binding
	Search   key.Binding
	Delegate key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding

	// Wallet
	Connect    key.Binding
	Disconnect key.Binding
	Copy       key.Binding
	ShowQR     key.Binding

	// Application specific
	Refresh key.Binding
	Logs    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Global navigation
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		// Tabs
		Home: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "home"),
		),
		Swap: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "swap"),
		),
		Search: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "search"),
		),
		Delegate: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "delegate"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),

		// Wallet
		Connect: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "disconnect"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy address"),
		),
		ShowQR: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "receive QR"),
		),

		// Application specific
		Refresh: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("F5", "refresh"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logs"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Connect, k.Logs, k.Quit}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route, connected bool) []key.Binding {
	wallet := k.Connect
	if connected {
		wallet = k.Disconnect
	}

	switch route {
	case RouteHome:
		if connected {
			return []key.Binding{k.Tab, wallet, k.Copy, k.ShowQR, k.Refresh, k.Logs, k.Quit}
		}
		return []key.Binding{k.Tab, wallet, k.Logs, k.Quit}
	case RouteSwap:
		return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Tab, wallet, k.Quit}
	case RouteSearch:
		return []key.Binding{k.Enter, k.Refresh, k.Tab, wallet, k.Quit}
	case RouteDelegate:
		return []key.Binding{k.Refresh, k.Tab, wallet, k.Quit}
	case RouteConnect:
		return []key.Binding{k.Enter, k.Back}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.Back}
	default:
		return k.ShortHelp()
	}
}
