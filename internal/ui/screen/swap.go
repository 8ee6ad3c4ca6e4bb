package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/state"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

const (
	fieldInput  = "input"
	fieldOutput = "output"
	fieldAmount = "amount"
)

// SwapScreen exchanges one held token for another through the aggregator.
type SwapScreen struct {
	state  *state.AppState
	keyMap ui.KeyMap
	width  int
	height int

	form *component.Form
}

// NewSwapScreen creates the Swap tab
func NewSwapScreen(st *state.AppState) *SwapScreen {
	return &SwapScreen{
		state:  st,
		keyMap: ui.DefaultKeyMap(),
		form: component.NewForm().
			AddField(fieldInput, component.FieldTypeSelect, "From", true, "select a token").
			AddField(fieldOutput, component.FieldTypeSelect, "To", true, "select a token").
			AddField(fieldAmount, component.FieldTypeNumber, "Amount", true, "0.0"),
	}
}

// tokenOptions labels each held token as "name (amount)".
func tokenOptions(tokens []portfolio.TokenBalance) []component.Option {
	opts := make([]component.Option, 0, len(tokens))
	for _, t := range tokens {
		opts = append(opts, component.Option{
			Label: fmt.Sprintf("%s (%s)", t.Name, t.Amount),
			Value: t.Mint,
		})
	}
	return opts
}

// syncFromState copies the form model out of the application state.
func (s *SwapScreen) syncFromState() {
	f := s.state.Swap
	s.form.SetFieldOptions(fieldInput, tokenOptions(s.state.InputOptions()))
	s.form.SetFieldValue(fieldInput, f.InputMint)
	s.form.SetFieldOptions(fieldOutput, tokenOptions(s.state.OutputOptions()))
	s.form.SetFieldValue(fieldOutput, f.OutputMint)
	s.form.SetFieldValue(fieldAmount, f.Amount)
}

func (s *SwapScreen) syncToState() {
	in, out := s.form.GetValue(fieldInput), s.form.GetValue(fieldOutput)
	if out == in {
		out = ""
	}
	s.state.Swap.InputMint = in
	s.state.Swap.OutputMint = out
	s.state.Swap.Amount = s.form.GetValue(fieldAmount)
}

// Init initializes the swap screen
func (s *SwapScreen) Init() tea.Cmd {
	s.syncFromState()
	return s.form.Init()
}

// Update handles screen updates
func (s *SwapScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ResetMsg:
		s.form.Reset()
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Enter) {
			if s.state.Swap.Pending {
				return s, nil
			}
			req := swap.Request{
				InputMint:  s.state.Swap.InputMint,
				OutputMint: s.state.Swap.OutputMint,
				Amount:     s.state.Swap.Amount,
			}
			return s, func() tea.Msg { return ui.SwapRequestMsg{Request: req} }
		}
	}

	if s.state.Swap.Pending {
		return s, nil
	}
	s.syncFromState()
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	s.syncToState()
	return s, cmd
}

// View renders the swap screen
func (s *SwapScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Swap"))
	b.WriteString("\n")

	if !s.state.Connected {
		b.WriteString(style.MutedStyle.Render("Connect your wallet to swap tokens."))
		b.WriteString("\n\n")
	}

	s.syncFromState()
	b.WriteString(s.form.View())
	b.WriteString("\n")

	if s.state.Swap.Pending {
		b.WriteString(style.WarningStyle.Render("Swapping… waiting for confirmation"))
	} else {
		b.WriteString(style.ButtonActiveStyle.Render("enter: swap"))
	}

	if last := s.state.Swap.Last; last != nil {
		b.WriteString("\n\n")
		b.WriteString(s.renderResult(last))
	}

	return b.String()
}

func (s *SwapScreen) renderResult(r *swap.Result) string {
	lines := []string{
		style.SuccessStyle.Render(r.Message()),
		fmt.Sprintf("Sold:     %s", portfolio.FormatAmount(r.InAmount)),
		fmt.Sprintf("Received: %s", portfolio.FormatAmount(r.OutAmount)),
		fmt.Sprintf("Route:    %s", r.Route.Venues()),
	}
	if !r.Route.PriceImpactPct.IsZero() {
		lines = append(lines, fmt.Sprintf("Impact:   %s", r.Route.PriceImpactPct.String()))
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

// SetSize sets the screen dimensions
func (s *SwapScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetSize(width, height)
}
