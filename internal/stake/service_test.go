package stake

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain/blockchaintest"
	bin "github.com/rovshanmuradov/solana-wallet-tracker/internal/utils/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const stakeAccountSize = 200

func stakeAccountData(tag uint32, staker, voter solana.PublicKey, lamports uint64) []byte {
	data := make([]byte, stakeAccountSize)
	bin.PutUint32(data, stateTagOffset, tag)
	bin.PutPubKey(data, StakerOffset, staker)
	bin.PutPubKey(data, WithdrawerOffset, staker)
	bin.PutPubKey(data, voterOffset, voter)
	bin.PutUint64(data, stakeOffset, lamports)
	bin.PutUint64(data, activationEpochOffset, 500)
	bin.PutUint64(data, deactivationEpochOffset, math.MaxUint64)
	return data
}

func keyed(pubkey solana.PublicKey, data []byte) *rpc.KeyedAccount {
	return &rpc.KeyedAccount{
		Pubkey: pubkey,
		Account: &rpc.Account{
			Owner: solana.StakeProgramID,
			Data:  rpc.DataBytesOrJSONFromBytes(data),
		},
	}
}

func TestDelegations(t *testing.T) {
	client := new(blockchaintest.MockClient)
	owner := solana.NewWallet().PublicKey()
	voter := solana.NewWallet().PublicKey()
	delegated := solana.NewWallet().PublicKey()
	initialized := solana.NewWallet().PublicKey()

	client.On("GetProgramAccountsWithOpts", mock.Anything, solana.StakeProgramID,
		mock.MatchedBy(func(opts *rpc.GetProgramAccountsOpts) bool {
			return len(opts.Filters) == 1 &&
				opts.Filters[0].Memcmp.Offset == StakerOffset &&
				solana.PublicKeyFromBytes(opts.Filters[0].Memcmp.Bytes).Equals(owner)
		}),
	).Return(rpc.GetProgramAccountsResult{
		keyed(delegated, stakeAccountData(2, owner, voter, 3_141_592_653)),
		keyed(initialized, stakeAccountData(1, owner, solana.PublicKey{}, 0)),
		keyed(solana.NewWallet().PublicKey(), []byte{2, 0}),
	}, nil)

	svc := NewService(client, StakerOffset, zap.NewNop())
	got, err := svc.Delegations(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, delegated, got[0].StakeAccount)
	assert.Equal(t, voter, got[0].Voter)
	assert.Equal(t, uint64(3_141_592_653), got[0].Lamports)
	assert.Equal(t, "3.1416", got[0].Amount)
	assert.False(t, got[0].Deactivating())
	client.AssertExpectations(t)
}

func TestDelegationsEmpty(t *testing.T) {
	client := new(blockchaintest.MockClient)
	client.On("GetProgramAccountsWithOpts", mock.Anything, solana.StakeProgramID, mock.Anything).
		Return(rpc.GetProgramAccountsResult{}, nil)

	got, err := NewService(client, WithdrawerOffset, zap.NewNop()).
		Delegations(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelegationsFailure(t *testing.T) {
	client := new(blockchaintest.MockClient)
	client.On("GetProgramAccountsWithOpts", mock.Anything, solana.StakeProgramID, mock.Anything).
		Return(nil, errors.New("method disabled"))

	_, err := NewService(client, StakerOffset, zap.NewNop()).
		Delegations(context.Background(), solana.NewWallet().PublicKey())
	assert.Equal(t, MsgFailed, apperr.UserMessage(err))
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}

func TestDecode(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	_, ok, err := Decode(stakeAccountData(1, owner, owner, 10))
	require.NoError(t, err)
	assert.False(t, ok)

	data := stakeAccountData(2, owner, owner, 10)
	bin.PutUint64(data, deactivationEpochOffset, 600)
	d, ok, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, d.Deactivating())
	assert.Equal(t, uint64(500), d.ActivationEpoch)

	_, _, err = Decode(data[:100])
	assert.ErrorIs(t, err, bin.ErrShortBuffer)
}
