package wallet

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionConnectDisconnect(t *testing.T) {
	ks := newTestKeystore(t)
	w := newTestWallet(t)
	require.NoError(t, ks.Save(w, []byte("pass")))

	s := NewSession(ks, zap.NewNop())
	assert.Equal(t, StateDisconnected, s.State())

	pk, err := s.Connect(context.Background(), []byte("pass"))
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey, pk)
	assert.Equal(t, StateConnected, s.State())

	got, ok := s.PublicKey()
	assert.True(t, ok)
	assert.Equal(t, w.PublicKey, got)

	// a second connect keeps the existing session
	again, err := s.Connect(context.Background(), []byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, pk, again)

	s.Disconnect()
	assert.Equal(t, StateDisconnected, s.State())
	_, ok = s.PublicKey()
	assert.False(t, ok)
}

func TestSessionConnectMissingKeystore(t *testing.T) {
	s := NewSession(newTestKeystore(t), zap.NewNop())

	_, err := s.Connect(context.Background(), []byte("pass"))
	require.Error(t, err)
	assert.Equal(t, MsgWalletNotFound, apperr.UserMessage(err))
	assert.Equal(t, apperr.KindWallet, apperr.KindOf(err))
	assert.Equal(t, StateDisconnected, s.State())
}

func TestSessionConnectWrongPassphrase(t *testing.T) {
	ks := newTestKeystore(t)
	require.NoError(t, ks.Save(newTestWallet(t), []byte("pass")))
	s := NewSession(ks, zap.NewNop())

	_, err := s.Connect(context.Background(), []byte("nope"))
	require.Error(t, err)
	assert.Equal(t, MsgConnectFailed, apperr.UserMessage(err))
	assert.Equal(t, StateDisconnected, s.State())
}

func TestSessionConnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(newTestKeystore(t), zap.NewNop())
	_, err := s.Connect(ctx, []byte("pass"))
	require.Error(t, err)
	assert.Equal(t, MsgConnectFailed, apperr.UserMessage(err))
}

func TestSessionSignRequiresConnection(t *testing.T) {
	s := NewSession(newTestKeystore(t), zap.NewNop())
	err := s.SignTransaction(&solana.Transaction{})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSessionDisconnectWhenIdle(t *testing.T) {
	s := NewSession(nil, zap.NewNop())
	s.Disconnect()
	assert.Equal(t, StateDisconnected, s.State())
}
