package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/state"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
	"github.com/skip2/go-qrcode"
)

// HomeScreen shows the connected wallet's balances and recent transactions.
type HomeScreen struct {
	state  *state.AppState
	width  int
	height int

	balances *component.Table
	history  *component.Table

	qrFor string
	qr    string
}

// NewHomeScreen creates the Home tab
func NewHomeScreen(st *state.AppState) *HomeScreen {
	return &HomeScreen{
		state: st,
		balances: component.NewTable().
			AddColumn("Token", 14, lipgloss.Left).
			AddColumn("Amount", 20, lipgloss.Right).
			AddColumn("Mint", 0, lipgloss.Left).
			SetSelectable(false).
			SetEmptyText("No token balances."),
		history: newHistoryTable(),
	}
}

// Init initializes the home screen
func (s *HomeScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *HomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if _, ok := msg.(ui.ResetMsg); ok {
		s.balances.Clear()
		s.history.Clear()
		s.qrFor, s.qr = "", ""
	}
	return s, nil
}

// View renders the home screen
func (s *HomeScreen) View() string {
	st := s.state
	if !st.Connected {
		hint := "Connect your wallet to see balances and recent transactions."
		if st.Connecting {
			hint = "Connecting…"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			style.TitleStyle.Render("Welcome"),
			style.MutedStyle.Render(hint),
			style.MutedStyle.Render("Press ctrl+o to unlock the keystore."),
		)
	}

	var b strings.Builder
	addr := st.Wallet.String()
	b.WriteString(style.SubHeaderStyle.Render("Address"))
	b.WriteString("\n")
	b.WriteString(style.AddressStyle.Render(addr))
	b.WriteString("\n")

	if st.ShowQR {
		b.WriteString(style.PanelStyle.Render(s.qrCode(addr)))
		b.WriteString("\n")
	}

	b.WriteString(style.SubHeaderStyle.Render("Balances"))
	b.WriteString("\n")
	if st.LoadingBalances {
		b.WriteString(style.MutedStyle.Render("Loading balances…"))
	} else {
		s.fillBalances()
		b.WriteString(s.balances.View())
	}
	b.WriteString("\n\n")

	b.WriteString(style.SubHeaderStyle.Render("Recent transactions"))
	b.WriteString("\n")
	if st.LoadingHistory {
		b.WriteString(style.MutedStyle.Render("Loading transactions…"))
	} else {
		fillHistoryTable(s.history, st.Transactions, st.Wallet)
		b.WriteString(s.history.View())
	}

	return b.String()
}

func (s *HomeScreen) fillBalances() {
	rows := make([][]string, 0, len(s.state.Tokens))
	for _, token := range s.state.Tokens {
		mint := token.Mint
		if token.Native {
			mint = "native"
		}
		rows = append(rows, []string{token.Name, token.Amount, mint})
	}
	s.balances.SetRows(rows)
	// largest holding first
	if len(rows) > 0 {
		s.balances.SetRowStyle(0, style.HighlightRowStyle)
	}
}

func (s *HomeScreen) qrCode(addr string) string {
	if s.qrFor == addr {
		return s.qr
	}
	q, err := qrcode.New(addr, qrcode.Medium)
	if err != nil {
		return style.ErrorStyle.Render("QR code unavailable")
	}
	s.qrFor = addr
	s.qr = q.ToSmallString(false)
	return s.qr
}

// SetSize sets the screen dimensions
func (s *HomeScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.balances.SetSize(width-4, 0)
	s.history.SetSize(width-4, 0)
}
