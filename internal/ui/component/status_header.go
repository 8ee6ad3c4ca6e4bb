package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// StatusHeader shows the application title, wallet and RPC status on one line.
type StatusHeader struct {
	title     string
	wallet    solana.PublicKey
	connected bool
	busy      string
	network   string
	style     style.HeaderStyles
	width     int
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(title, network string) *StatusHeader {
	return &StatusHeader{
		title:   title,
		network: network,
		style:   style.NewHeaderStyles(style.DefaultPalette()),
	}
}

// SetWallet updates the wallet address display.
func (sh *StatusHeader) SetWallet(wallet solana.PublicKey, connected bool) {
	sh.wallet = wallet
	sh.connected = connected
}

// SetBusy shows a short activity label, e.g. "loading balances". Empty clears it.
func (sh *StatusHeader) SetBusy(label string) {
	sh.busy = label
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
	if width > 4 {
		sh.style.Container = sh.style.Container.Width(width - 4)
	}
}

// View renders the status header
func (sh *StatusHeader) View() string {
	parts := []string{
		sh.style.Title.Render(sh.title),
		sh.renderWallet(),
		sh.renderRPC(),
	}
	if sh.busy != "" {
		parts = append(parts, sh.style.Busy.Render("⟳ "+sh.busy))
	}

	content := parts[0]
	for _, p := range parts[1:] {
		content = lipgloss.JoinHorizontal(lipgloss.Left, content, " | ", p)
	}
	return sh.style.Container.Render(content)
}

func (sh *StatusHeader) renderWallet() string {
	if !sh.connected {
		return sh.style.Disconnected.Render("Wallet: not connected")
	}
	return sh.style.Wallet.Render(fmt.Sprintf("Wallet: %s", ShortAddress(sh.wallet.String())))
}

func (sh *StatusHeader) renderRPC() string {
	return sh.style.Network.Render(fmt.Sprintf("🌐 %s", sh.network))
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	return 3 // Border + padding + content
}

// ShortAddress abbreviates a base58 address as "Abcd…wxyz".
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}
