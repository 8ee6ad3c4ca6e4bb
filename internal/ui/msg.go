package ui

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
)

// Tea message types for UI communication

// RouterMsg requests a switch to another tab.
type RouterMsg struct {
	To Route
}

// ResetMsg tells screens to drop local view state (selection, scroll).
type ResetMsg struct{}

// ConnectRequestMsg carries the passphrase entered in the connect prompt.
type ConnectRequestMsg struct {
	Passphrase []byte
}

// WalletConnectedMsg reports a successful unlock.
type WalletConnectedMsg struct {
	Address solana.PublicKey
}

// WalletErrorMsg reports a failed connection attempt.
type WalletErrorMsg struct {
	Err error
}

// BalancesMsg is the completion of a balance fetch.
type BalancesMsg struct {
	Address  solana.PublicKey
	Balances []portfolio.TokenBalance
	Err      error
}

// HistoryMsg is the completion of the connected wallet's history fetch.
type HistoryMsg struct {
	Address solana.PublicKey
	Records []portfolio.TransactionRecord
	Err     error
}

// SearchRequestMsg is emitted when the user submits the search field.
type SearchRequestMsg struct {
	Input string
}

// SearchResultMsg is the completion of a searched address' history fetch.
type SearchResultMsg struct {
	Address solana.PublicKey
	Records []portfolio.TransactionRecord
	Err     error
}

// SwapRequestMsg is emitted when the user submits the swap form.
type SwapRequestMsg struct {
	Request swap.Request
}

// SwapResultMsg is the completion of a swap.
type SwapResultMsg struct {
	Address solana.PublicKey
	Result  *swap.Result
	Err     error
}

// DelegationsMsg is the completion of a stake lookup.
type DelegationsMsg struct {
	Address     solana.PublicKey
	Delegations []stake.Delegation
	Err         error
}

// ClipboardMsg reports the result of copying the wallet address.
type ClipboardMsg struct {
	Err error
}

// CloseOverlayMsg closes the topmost overlay.
type CloseOverlayMsg struct{}

// Route represents the tabs of the application
type Route int

const (
	RouteHome Route = iota
	RouteSwap
	RouteSearch
	RouteDelegate

	// overlays
	RouteConnect
	RouteLogs
)

// Tabs lists the tab routes in display order.
var Tabs = []Route{RouteHome, RouteSwap, RouteSearch, RouteDelegate}

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteHome:
		return "home"
	case RouteSwap:
		return "swap"
	case RouteSearch:
		return "search"
	case RouteDelegate:
		return "delegate"
	case RouteConnect:
		return "connect"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}

// Title is the label shown in the tab bar.
func (r Route) Title() string {
	switch r {
	case RouteHome:
		return "Home"
	case RouteSwap:
		return "Swap"
	case RouteSearch:
		return "Search"
	case RouteDelegate:
		return "Delegate"
	case RouteConnect:
		return "Connect"
	case RouteLogs:
		return "Logs"
	default:
		return "?"
	}
}

// IsTab reports whether r is one of the main tabs.
func (r Route) IsTab() bool {
	return r >= RouteHome && r <= RouteDelegate
}

// NextTab returns the tab after r, wrapping around.
func NextTab(r Route) Route {
	if !r.IsTab() {
		return RouteHome
	}
	return Tabs[(int(r)+1)%len(Tabs)]
}

// PrevTab returns the tab before r, wrapping around.
func PrevTab(r Route) Route {
	if !r.IsTab() {
		return RouteHome
	}
	return Tabs[(int(r)+len(Tabs)-1)%len(Tabs)]
}
