package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/state"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

const fieldAddress = "address"

// SearchScreen looks up the recent transactions of any address.
type SearchScreen struct {
	state  *state.AppState
	keyMap ui.KeyMap
	width  int
	height int

	form    *component.Form
	results *component.Table
}

// NewSearchScreen creates the Search tab
func NewSearchScreen(st *state.AppState) *SearchScreen {
	return &SearchScreen{
		state:  st,
		keyMap: ui.DefaultKeyMap(),
		form: component.NewForm().
			AddField(fieldAddress, component.FieldTypeText, "Wallet address", false, "base58 address"),
		results: newHistoryTable(),
	}
}

// Init initializes the search screen
func (s *SearchScreen) Init() tea.Cmd {
	s.form.SetFieldValue(fieldAddress, s.state.SearchInput)
	return s.form.Init()
}

// Update handles screen updates
func (s *SearchScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ResetMsg:
		s.form.Reset()
		s.results.Clear()
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Enter) {
			input := s.form.GetValue(fieldAddress)
			if strings.TrimSpace(input) == "" {
				return s, nil
			}
			return s, func() tea.Msg { return ui.SearchRequestMsg{Input: input} }
		}
	}

	s.form.SetFieldValue(fieldAddress, s.state.SearchInput)
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	s.state.SearchInput = s.form.GetValue(fieldAddress)
	return s, cmd
}

// View renders the search screen
func (s *SearchScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Search transactions"))
	b.WriteString("\n")

	s.form.SetFieldValue(fieldAddress, s.state.SearchInput)
	b.WriteString(s.form.View())
	b.WriteString("\n")

	switch {
	case s.state.Searching:
		b.WriteString(style.MutedStyle.Render("Searching…"))
	case s.state.Searched:
		b.WriteString(style.SubHeaderStyle.Render("Recent transactions of " + s.state.SearchAddress.String()))
		b.WriteString("\n")
		fillHistoryTable(s.results, s.state.SearchResults, s.state.SearchAddress)
		b.WriteString(s.results.View())
	default:
		b.WriteString(style.MutedStyle.Render("Enter an address and press enter."))
	}

	return b.String()
}

// SetSize sets the screen dimensions
func (s *SearchScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetSize(width, height)
	s.results.SetSize(width-4, 0)
}
