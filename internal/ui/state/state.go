package state

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
)

// SwapForm – поля формы свапа.
type SwapForm struct {
	InputMint  string
	OutputMint string
	Amount     string
	Pending    bool
	Last       *swap.Result
}

// AppState – состояние приложения. Единственный писатель – цикл Bubble Tea.
type AppState struct {
	Wallet     solana.PublicKey
	Connected  bool
	Connecting bool

	Tokens          []portfolio.TokenBalance
	Transactions    []portfolio.TransactionRecord
	LoadingBalances bool
	LoadingHistory  bool

	SearchInput   string
	SearchAddress solana.PublicKey
	SearchResults []portfolio.TransactionRecord
	Searching     bool
	Searched      bool

	Swap SwapForm

	Delegations        []stake.Delegation
	DelegationsLoaded  bool
	LoadingDelegations bool

	ActiveTab ui.Route
	ShowQR    bool

	Error  string
	Status string
}

// New returns the initial disconnected state.
func New() *AppState {
	return &AppState{ActiveTab: ui.RouteHome}
}

// Connect records a successful wallet connection.
func (s *AppState) Connect(addr solana.PublicKey) {
	s.Wallet = addr
	s.Connected = true
	s.Connecting = false
	s.Error = ""
	s.LoadingBalances = true
	s.LoadingHistory = true
}

// Reset clears everything tied to the wallet session and returns to Home.
func (s *AppState) Reset() {
	*s = AppState{ActiveTab: ui.RouteHome}
}

// ResetForms clears per-tab input and results. Called on every tab change.
// An in-flight swap stays pending until its result arrives.
func (s *AppState) ResetForms() {
	s.Error = ""
	s.Status = ""
	s.Swap = SwapForm{Pending: s.Swap.Pending}
	s.SearchInput = ""
	s.SearchAddress = solana.PublicKey{}
	s.SearchResults = nil
	s.Searching = false
	s.Searched = false
	s.ShowQR = false
}

// SwitchTab makes route active, clearing forms when the tab actually changes.
func (s *AppState) SwitchTab(route ui.Route) bool {
	if !route.IsTab() || route == s.ActiveTab {
		return false
	}
	s.ActiveTab = route
	s.ResetForms()
	return true
}

// SetError stores the user-facing message of err.
func (s *AppState) SetError(err error) {
	s.Status = ""
	s.Error = apperr.UserMessage(err)
}

// SetStatus stores an informational message and clears the error.
func (s *AppState) SetStatus(msg string) {
	s.Error = ""
	s.Status = msg
}

// IsCurrentWallet reports whether a completion for addr is still relevant.
func (s *AppState) IsCurrentWallet(addr solana.PublicKey) bool {
	return s.Connected && s.Wallet.Equals(addr)
}

// IsCurrentSearch reports whether a search completion for addr is still relevant.
func (s *AppState) IsCurrentSearch(addr solana.PublicKey) bool {
	return s.Searching && s.SearchAddress.Equals(addr)
}

// InputOptions returns the tokens that can be sold.
func (s *AppState) InputOptions() []portfolio.TokenBalance {
	return s.Tokens
}

// OutputOptions returns the held tokens other than the selected input mint.
func (s *AppState) OutputOptions() []portfolio.TokenBalance {
	out := make([]portfolio.TokenBalance, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.Mint == s.Swap.InputMint {
			continue
		}
		out = append(out, t)
	}
	return out
}
