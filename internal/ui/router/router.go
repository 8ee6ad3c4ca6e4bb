package router

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Router держит по экрану на вкладку и стек оверлеев поверх активной вкладки.
type Router struct {
	tabs     map[ui.Route]Screen
	active   ui.Route
	overlays []Screen
	width    int
	height   int
}

// New creates a router with one screen per tab.
func New(tabs map[ui.Route]Screen, initial ui.Route) *Router {
	return &Router{
		tabs:   tabs,
		active: initial,
	}
}

// Init initializes the router
func (r *Router) Init() tea.Cmd {
	if s := r.Current(); s != nil {
		return s.Init()
	}
	return nil
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (*Router, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.SwitchTab(msg.To)

	case ui.CloseOverlayMsg:
		return r, r.Pop()

	case ui.ResetMsg:
		return r, r.Broadcast(msg)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && len(r.overlays) > 0 {
			return r, r.Pop()
		}
	}

	return r, r.updateCurrent(msg)
}

func (r *Router) updateCurrent(msg tea.Msg) tea.Cmd {
	if n := len(r.overlays); n > 0 {
		updated, cmd := r.overlays[n-1].Update(msg)
		r.overlays[n-1] = updated
		return cmd
	}
	screen, ok := r.tabs[r.active]
	if !ok {
		return nil
	}
	updated, cmd := screen.Update(msg)
	r.tabs[r.active] = updated
	return cmd
}

// UpdateTab delivers msg to a tab screen even when it is not visible.
func (r *Router) UpdateTab(route ui.Route, msg tea.Msg) tea.Cmd {
	screen, ok := r.tabs[route]
	if !ok {
		return nil
	}
	updated, cmd := screen.Update(msg)
	r.tabs[route] = updated
	return cmd
}

// Broadcast delivers msg to every tab screen.
func (r *Router) Broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.tabs))
	for _, route := range ui.Tabs {
		cmds = append(cmds, r.UpdateTab(route, msg))
	}
	return tea.Batch(cmds...)
}

// View renders the current screen
func (r *Router) View() string {
	if s := r.Current(); s != nil {
		return s.View()
	}
	return "No screen available"
}

// SetSize sets the size for the router and all screens
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	for _, s := range r.tabs {
		s.SetSize(width, height)
	}
	for _, s := range r.overlays {
		s.SetSize(width, height)
	}
}

// SwitchTab activates a tab and closes any overlays.
func (r *Router) SwitchTab(route ui.Route) tea.Cmd {
	screen, ok := r.tabs[route]
	if !ok {
		return nil
	}
	r.overlays = nil
	r.active = route
	screen.SetSize(r.width, r.height)
	return screen.Init()
}

// Active returns the active tab.
func (r *Router) Active() ui.Route {
	return r.active
}

// Push adds an overlay on top of the active tab
func (r *Router) Push(screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.overlays = append(r.overlays, screen)
	return screen.Init()
}

// Pop removes the topmost overlay
func (r *Router) Pop() tea.Cmd {
	if len(r.overlays) == 0 {
		return nil
	}
	r.overlays = r.overlays[:len(r.overlays)-1]
	return nil
}

// Current returns the visible screen
func (r *Router) Current() Screen {
	if n := len(r.overlays); n > 0 {
		return r.overlays[n-1]
	}
	return r.tabs[r.active]
}

// HasOverlay reports whether an overlay is open.
func (r *Router) HasOverlay() bool {
	return len(r.overlays) > 0
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.overlays) + 1
}
