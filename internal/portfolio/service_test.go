package portfolio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain/blockchaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

var nativeMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

type mapNamer map[string]string

func (m mapNamer) DisplayName(mint string) string {
	if name, ok := m[mint]; ok {
		return name
	}
	return mint
}

func tokenAccounts(t *testing.T, entries ...[3]any) *rpc.GetTokenAccountsResult {
	t.Helper()
	values := make([]string, 0, len(entries))
	for _, e := range entries {
		values = append(values, fmt.Sprintf(`{
			"pubkey": %q,
			"account": {
				"lamports": 2039280,
				"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
				"executable": false,
				"rentEpoch": 0,
				"data": {
					"program": "spl-token",
					"space": 165,
					"parsed": {
						"type": "account",
						"info": {
							"mint": %q,
							"tokenAmount": {"amount": %q, "decimals": %d}
						}
					}
				}
			}
		}`, solana.NewWallet().PublicKey().String(), e[0], e[1], e[2]))
	}
	raw := fmt.Sprintf(`{"context":{"slot":1},"value":[%s]}`, strings.Join(values, ","))

	var res rpc.GetTokenAccountsResult
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	return &res
}

func newTestService(client *blockchaintest.MockClient) *Service {
	return NewService(client, mapNamer{usdcMint: "USDC"}, nativeMint, zap.NewNop())
}

func TestBalancesSortedDescending(t *testing.T) {
	client := new(blockchaintest.MockClient)
	owner := solana.NewWallet().PublicKey()

	client.On("GetBalance", mock.Anything, owner, rpc.CommitmentConfirmed).Return(uint64(2_500_000_000), nil)
	client.On("GetTokenAccountsByOwner", mock.Anything, owner, solana.TokenProgramID).
		Return(tokenAccounts(t, [3]any{usdcMint, "10000000", 6}), nil)

	balances, err := newTestService(client).Balances(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "USDC", balances[0].Name)
	assert.Equal(t, "10.0000", balances[0].Amount)
	assert.Equal(t, "SOL", balances[1].Name)
	assert.Equal(t, "2.5000", balances[1].Amount)
	assert.True(t, balances[1].Native)
	client.AssertExpectations(t)
}

func TestBalancesUnknownMintAndStableOrder(t *testing.T) {
	client := new(blockchaintest.MockClient)
	owner := solana.NewWallet().PublicKey()
	mintA := solana.NewWallet().PublicKey().String()
	mintB := solana.NewWallet().PublicKey().String()

	client.On("GetBalance", mock.Anything, owner, rpc.CommitmentConfirmed).Return(uint64(0), nil)
	client.On("GetTokenAccountsByOwner", mock.Anything, owner, solana.TokenProgramID).
		Return(tokenAccounts(t,
			[3]any{mintA, "1234567", 3},
			[3]any{mintB, "1234567", 3},
		), nil)

	balances, err := newTestService(client).Balances(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, balances, 3)

	assert.Equal(t, mintA, balances[0].Name)
	assert.Equal(t, mintB, balances[1].Name)
	assert.Equal(t, "1234.5670", balances[0].Amount)
	assert.Equal(t, "0.0000", balances[2].Amount)

	for i := 1; i < len(balances); i++ {
		assert.False(t, balances[i].Value.GreaterThan(balances[i-1].Value))
	}
}

func TestBalancesFailure(t *testing.T) {
	client := new(blockchaintest.MockClient)
	owner := solana.NewWallet().PublicKey()

	client.On("GetBalance", mock.Anything, owner, rpc.CommitmentConfirmed).Return(uint64(1), nil)
	client.On("GetTokenAccountsByOwner", mock.Anything, owner, solana.TokenProgramID).
		Return(nil, errors.New("429 too many requests"))

	balances, err := newTestService(client).Balances(context.Background(), owner)
	assert.Nil(t, balances)
	assert.Equal(t, MsgBalancesFailed, apperr.UserMessage(err))
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}

// transferResult builds a getTransaction result for a signed SOL transfer.
func transferResult(t *testing.T, from solana.PrivateKey, to solana.PublicKey, pre, post []uint64) *rpc.GetTransactionResult {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, from.PublicKey(), to).Build(),
		},
		solana.Hash{1, 2, 3},
		solana.TransactionPayer(from.PublicKey()),
	)
	require.NoError(t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(from.PublicKey()) {
			return &from
		}
		return nil
	})
	require.NoError(t, err)

	bin, err := tx.MarshalBinary()
	require.NoError(t, err)
	b64 := base64.StdEncoding.EncodeToString(bin)

	preJSON, _ := json.Marshal(pre)
	postJSON, _ := json.Marshal(post)
	raw := fmt.Sprintf(`{
		"slot": 42,
		"blockTime": 1700000000,
		"transaction": [%q, "base64"],
		"meta": {
			"err": null,
			"fee": 5000,
			"preBalances": %s,
			"postBalances": %s,
			"loadedAddresses": {"writable": [], "readonly": []}
		}
	}`, b64, preJSON, postJSON)

	var res rpc.GetTransactionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	return &res
}

func TestHistoryPreservesOrderAndSkipsMissing(t *testing.T) {
	client := new(blockchaintest.MockClient)
	from := solana.NewWallet().PrivateKey
	to := solana.NewWallet().PublicKey()

	sigs := []*rpc.TransactionSignature{
		{Signature: solana.Signature{1}},
		{Signature: solana.Signature{2}},
		{Signature: solana.Signature{3}},
	}
	client.On("GetSignaturesForAddress", mock.Anything, from.PublicKey(), HistoryLimit).Return(sigs, nil)
	client.On("GetTransaction", mock.Anything, sigs[0].Signature).
		Return(transferResult(t, from, to, []uint64{10_000_000_000, 0, 1}, []uint64{8_999_995_000, 1_000_000_000, 1}), nil)
	client.On("GetTransaction", mock.Anything, sigs[1].Signature).Return(nil, rpc.ErrNotFound)
	client.On("GetTransaction", mock.Anything, sigs[2].Signature).
		Return(transferResult(t, from, to, []uint64{5, 0, 1}, []uint64{5, 0, 1}), nil)

	records, err := newTestService(client).History(context.Background(), from.PublicKey())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, sigs[0].Signature.String(), records[0].Signature)
	assert.Equal(t, sigs[2].Signature.String(), records[1].Signature)
	assert.Equal(t, uint64(42), records[0].Slot)
	assert.NotNil(t, records[0].BlockTime)
	assert.Equal(t, solana.Hash{1, 2, 3}.String(), records[0].BlockHash)

	assert.Equal(t, DeltaView{Text: "-1.0000", Class: SignNegative}, records[0].DeltaFor(from.PublicKey()))
	assert.Equal(t, DeltaView{Text: "+1.0000", Class: SignPositive}, records[0].DeltaFor(to))
	assert.Equal(t, DeltaView{Text: "+0.0000", Class: SignZero}, records[1].DeltaFor(from.PublicKey()))
	assert.Equal(t, "N/A", records[0].DeltaFor(solana.NewWallet().PublicKey()).Text)
}

func TestHistoryEmpty(t *testing.T) {
	client := new(blockchaintest.MockClient)
	addr := solana.NewWallet().PublicKey()
	client.On("GetSignaturesForAddress", mock.Anything, addr, HistoryLimit).Return([]*rpc.TransactionSignature{}, nil)

	records, err := newTestService(client).History(context.Background(), addr)
	require.NoError(t, err)
	assert.Empty(t, records)
	client.AssertNotCalled(t, "GetTransaction", mock.Anything, mock.Anything)
}

func TestHistoryFailure(t *testing.T) {
	client := new(blockchaintest.MockClient)
	addr := solana.NewWallet().PublicKey()
	sig := &rpc.TransactionSignature{Signature: solana.Signature{9}}
	client.On("GetSignaturesForAddress", mock.Anything, addr, HistoryLimit).Return([]*rpc.TransactionSignature{sig}, nil)
	client.On("GetTransaction", mock.Anything, sig.Signature).Return(nil, errors.New("connection reset"))

	records, err := newTestService(client).History(context.Background(), addr)
	assert.Nil(t, records)
	assert.Equal(t, MsgHistoryFailed, apperr.UserMessage(err))
}

func TestParseAddress(t *testing.T) {
	_, ok, err := ParseAddress("   ")
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok, err = ParseAddress("not-an-address")
	assert.False(t, ok)
	assert.Equal(t, MsgInvalidAddress, apperr.UserMessage(err))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	want := solana.NewWallet().PublicKey()
	got, ok, err := ParseAddress("  " + want.String() + "\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestTokenBalanceRejectsEmptyAccount(t *testing.T) {
	s := &Service{}

	_, err := s.tokenBalance(nil)
	assert.Error(t, err)

	_, err = s.tokenBalance(&rpc.TokenAccount{Pubkey: solana.NewWallet().PublicKey()})
	assert.Error(t, err)
}
