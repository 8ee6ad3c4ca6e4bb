package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"go.uber.org/zap"
)

// User-facing connection messages.
const (
	MsgWalletNotFound  = "Wallet not found! Please create a keystore first."
	MsgConnectFailed   = "Failed to connect wallet. Please try again."
	MsgConnectInFlight = "Wallet connection already in progress."
)

// ErrNotConnected is returned when signing without a connected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// State – состояние сессии кошелька.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Unlocker opens the key store.
type Unlocker interface {
	Unlock(passphrase []byte) (*Wallet, error)
}

// Signer is the signing capability handed to the swap flow.
type Signer interface {
	PublicKey() (solana.PublicKey, bool)
	SignTransaction(tx *solana.Transaction) error
}

// Session ведёт жизненный цикл подключения:
// Disconnected → Connecting → Connected → Disconnected.
type Session struct {
	mu       sync.RWMutex
	state    State
	wallet   *Wallet
	id       string
	unlocker Unlocker
	logger   *zap.Logger
}

var _ Signer = (*Session)(nil)

// NewSession создаёт отключённую сессию.
func NewSession(unlocker Unlocker, logger *zap.Logger) *Session {
	return &Session{
		state:    StateDisconnected,
		unlocker: unlocker,
		logger:   logger.Named("wallet-session"),
	}
}

// Connect открывает хранилище паролем. Ошибка оставляет сессию отключённой,
// повторных попыток нет.
func (s *Session) Connect(ctx context.Context, passphrase []byte) (solana.PublicKey, error) {
	s.mu.Lock()
	switch s.state {
	case StateConnected:
		pk := s.wallet.PublicKey
		s.mu.Unlock()
		return pk, nil
	case StateConnecting:
		s.mu.Unlock()
		return solana.PublicKey{}, apperr.New(apperr.KindWallet, MsgConnectInFlight)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	w, err := s.unlock(ctx, passphrase)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateDisconnected
		s.logger.Warn("Wallet connection failed", zap.Error(err))
		if errors.Is(err, ErrKeystoreNotFound) {
			return solana.PublicKey{}, apperr.Wrap(apperr.KindWallet, MsgWalletNotFound, err)
		}
		return solana.PublicKey{}, apperr.Wrap(apperr.KindWallet, MsgConnectFailed, err)
	}

	s.wallet = w
	s.id = uuid.New().String()
	s.state = StateConnected
	s.logger.Info("Wallet connected",
		zap.String("address", w.PublicKey.String()),
		zap.String("session_id", s.id))

	return w.PublicKey, nil
}

func (s *Session) unlock(ctx context.Context, passphrase []byte) (*Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.unlocker == nil {
		return nil, ErrKeystoreNotFound
	}
	return s.unlocker.Unlock(passphrase)
}

// Disconnect забывает ключ и возвращает сессию в исходное состояние.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnected {
		return
	}
	s.logger.Info("Wallet disconnected", zap.String("session_id", s.id))
	s.wallet.Wipe()
	s.wallet = nil
	s.id = ""
	s.state = StateDisconnected
}

// State возвращает текущее состояние.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// PublicKey возвращает адрес подключённого кошелька.
func (s *Session) PublicKey() (solana.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateConnected {
		return solana.PublicKey{}, false
	}
	return s.wallet.PublicKey, true
}

// SignTransaction подписывает транзакцию подключённым кошельком.
func (s *Session) SignTransaction(tx *solana.Transaction) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateConnected {
		return ErrNotConnected
	}
	return s.wallet.SignTransaction(tx)
}
