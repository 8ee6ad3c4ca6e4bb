package state

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/stretchr/testify/assert"
)

func populated() *AppState {
	s := New()
	s.Connect(solana.NewWallet().PublicKey())
	s.Tokens = []portfolio.TokenBalance{{Name: "SOL", Mint: "sol"}, {Name: "USDC", Mint: "usdc"}}
	s.Transactions = []portfolio.TransactionRecord{{Signature: "a"}}
	s.SearchInput = "abc"
	s.SearchResults = []portfolio.TransactionRecord{{Signature: "b"}}
	s.Swap = SwapForm{InputMint: "sol", OutputMint: "usdc", Amount: "1"}
	s.Delegations = []stake.Delegation{{Amount: "1.0000"}}
	s.Error = "boom"
	s.ActiveTab = ui.RouteSwap
	return s
}

func TestResetClearsSession(t *testing.T) {
	s := populated()
	s.Reset()

	assert.False(t, s.Connected)
	assert.True(t, s.Wallet.IsZero())
	assert.Empty(t, s.Tokens)
	assert.Empty(t, s.Transactions)
	assert.Empty(t, s.SearchInput)
	assert.Empty(t, s.SearchResults)
	assert.Equal(t, SwapForm{}, s.Swap)
	assert.Empty(t, s.Delegations)
	assert.Empty(t, s.Error)
	assert.Equal(t, ui.RouteHome, s.ActiveTab)
}

func TestSwitchTabClearsForms(t *testing.T) {
	s := populated()
	wallet := s.Wallet

	assert.True(t, s.SwitchTab(ui.RouteSearch))
	assert.Equal(t, ui.RouteSearch, s.ActiveTab)
	assert.Equal(t, SwapForm{}, s.Swap)
	assert.Empty(t, s.SearchInput)
	assert.Empty(t, s.SearchResults)
	assert.Empty(t, s.Error)

	// wallet data survives a tab change
	assert.True(t, s.Connected)
	assert.Equal(t, wallet, s.Wallet)
	assert.Len(t, s.Tokens, 2)

	assert.False(t, s.SwitchTab(ui.RouteSearch))
	assert.False(t, s.SwitchTab(ui.RouteLogs))
}

func TestSwitchTabKeepsSwapInFlight(t *testing.T) {
	s := populated()
	s.Swap.Pending = true

	s.SwitchTab(ui.RouteSearch)
	s.SwitchTab(ui.RouteSwap)

	assert.Equal(t, SwapForm{Pending: true}, s.Swap)

	s.Reset()
	assert.False(t, s.Swap.Pending)
}

func TestIsCurrentWallet(t *testing.T) {
	s := New()
	addr := solana.NewWallet().PublicKey()
	assert.False(t, s.IsCurrentWallet(addr))

	s.Connect(addr)
	assert.True(t, s.IsCurrentWallet(addr))
	assert.False(t, s.IsCurrentWallet(solana.NewWallet().PublicKey()))

	s.Reset()
	assert.False(t, s.IsCurrentWallet(addr))
}

func TestOutputOptionsExcludeInput(t *testing.T) {
	s := populated()
	s.Swap.InputMint = "sol"

	out := s.OutputOptions()
	assert.Len(t, out, 1)
	assert.Equal(t, "usdc", out[0].Mint)
	assert.Len(t, s.InputOptions(), 2)
}

func TestSetErrorUsesUserMessage(t *testing.T) {
	s := New()
	s.SetStatus("working")
	s.SetError(apperr.New(apperr.KindValidation, "Enter a valid amount."))
	assert.Equal(t, "Enter a valid amount.", s.Error)
	assert.Empty(t, s.Status)

	s.SetError(errors.New("raw"))
	assert.Equal(t, apperr.GenericMessage, s.Error)
}
