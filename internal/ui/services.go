package ui

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
	"go.uber.org/zap"
)

// WalletSession is the keystore-backed wallet connection.
type WalletSession interface {
	Connect(ctx context.Context, passphrase []byte) (solana.PublicKey, error)
	Disconnect()
	PublicKey() (solana.PublicKey, bool)
}

// PortfolioService fetches balances and transaction history.
type PortfolioService interface {
	Balances(ctx context.Context, owner solana.PublicKey) ([]portfolio.TokenBalance, error)
	History(ctx context.Context, address solana.PublicKey) ([]portfolio.TransactionRecord, error)
}

// SwapService validates and executes swaps.
type SwapService interface {
	Validate(req swap.Request) error
	Execute(ctx context.Context, req swap.Request) (*swap.Result, error)
}

// StakeService looks up delegated stake accounts.
type StakeService interface {
	Delegations(ctx context.Context, owner solana.PublicKey) ([]stake.Delegation, error)
}

// ServiceProvider provides access to the wallet services for the UI
type ServiceProvider interface {
	GetSession() WalletSession
	GetPortfolio() PortfolioService
	GetSwap() SwapService
	GetStake() StakeService
	GetLogger() *zap.Logger
	GetContext() context.Context

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard(text string) error
}

// RealServiceProvider implements ServiceProvider with real services
type RealServiceProvider struct {
	session   WalletSession
	portfolio PortfolioService
	swap      SwapService
	stake     StakeService
	clipboard func(string) error
	logger    *zap.Logger
	context   context.Context
}

// NewRealServiceProvider creates a new real service provider
func NewRealServiceProvider(
	ctx context.Context,
	logger *zap.Logger,
	session WalletSession,
	portfolioService PortfolioService,
	swapService SwapService,
	stakeService StakeService,
	clipboard func(string) error,
) ServiceProvider {
	return &RealServiceProvider{
		session:   session,
		portfolio: portfolioService,
		swap:      swapService,
		stake:     stakeService,
		clipboard: clipboard,
		logger:    logger.Named("ui"),
		context:   ctx,
	}
}

// GetSession returns the wallet session
func (p *RealServiceProvider) GetSession() WalletSession {
	return p.session
}

// GetPortfolio returns the balance and history service
func (p *RealServiceProvider) GetPortfolio() PortfolioService {
	return p.portfolio
}

// GetSwap returns the swap service
func (p *RealServiceProvider) GetSwap() SwapService {
	return p.swap
}

// GetStake returns the stake lookup service
func (p *RealServiceProvider) GetStake() StakeService {
	return p.stake
}

// GetLogger returns the logger
func (p *RealServiceProvider) GetLogger() *zap.Logger {
	return p.logger
}

// GetContext returns the context
func (p *RealServiceProvider) GetContext() context.Context {
	return p.context
}

// CopyToClipboard writes text to the system clipboard.
func (p *RealServiceProvider) CopyToClipboard(text string) error {
	return p.clipboard(text)
}
