package screen

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/state"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// DelegateScreen lists stake accounts the wallet is the staker of.
type DelegateScreen struct {
	state  *state.AppState
	width  int
	height int

	table *component.Table
}

// NewDelegateScreen creates the Delegate tab
func NewDelegateScreen(st *state.AppState) *DelegateScreen {
	return &DelegateScreen{
		state: st,
		table: component.NewTable().
			AddColumn("Stake account", 44, lipgloss.Left).
			AddColumn("Amount (SOL)", 14, lipgloss.Right).
			AddColumn("Validator vote account", 44, lipgloss.Left).
			AddColumn("Active since", 12, lipgloss.Right).
			SetSelectable(false).
			SetZebra(true),
	}
}

// Init initializes the delegate screen
func (s *DelegateScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *DelegateScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if _, ok := msg.(ui.ResetMsg); ok {
		s.table.Clear()
	}
	return s, nil
}

// View renders the delegate screen
func (s *DelegateScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Delegated stake"))
	b.WriteString("\n")

	st := s.state
	switch {
	case !st.Connected:
		b.WriteString(style.MutedStyle.Render("Connect your wallet to see delegated stake."))
	case st.LoadingDelegations:
		b.WriteString(style.MutedStyle.Render("Loading stake accounts…"))
	case !st.DelegationsLoaded:
		b.WriteString(style.MutedStyle.Render("Press F5 to load stake accounts."))
	case len(st.Delegations) == 0:
		b.WriteString(style.InfoStyle.Render(stake.MsgNoStakes))
	default:
		s.fill(st.Delegations)
		b.WriteString(s.table.View())
	}

	return b.String()
}

func (s *DelegateScreen) fill(delegations []stake.Delegation) {
	rows := make([][]string, 0, len(delegations))
	for _, d := range delegations {
		epoch := strconv.FormatUint(d.ActivationEpoch, 10)
		if d.Deactivating() {
			epoch += " (deactivating)"
		}
		rows = append(rows, []string{
			d.StakeAccount.String(),
			d.Amount,
			d.Voter.String(),
			epoch,
		})
	}
	s.table.SetRows(rows)
}

// SetSize sets the screen dimensions
func (s *DelegateScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetSize(width-4, 0)
}
