// internal/stake/service.go
package stake

import (
	"context"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/logger"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	bin "github.com/rovshanmuradov/solana-wallet-tracker/internal/utils/binary"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	MsgNoStakes = "No delegated stakes found."
	MsgFailed   = "Error fetching delegated stakes. Please try again later."
)

// Раскладка аккаунта Stake program (StakeStateV2).
const (
	stateTagOffset          = 0
	StakerOffset            = 12
	WithdrawerOffset        = 44
	voterOffset             = 124
	stakeOffset             = 156
	activationEpochOffset   = 164
	deactivationEpochOffset = 172

	stateDelegated = 2
)

// Delegation – делегированный stake-аккаунт.
type Delegation struct {
	StakeAccount      solana.PublicKey
	Voter             solana.PublicKey
	Lamports          uint64
	Amount            string // SOL, 4 знака
	ActivationEpoch   uint64
	DeactivationEpoch uint64
}

// Deactivating reports whether a deactivation epoch has been set.
func (d Delegation) Deactivating() bool {
	return d.DeactivationEpoch != math.MaxUint64
}

// Service ищет stake-аккаунты, где адрес указан как authority.
type Service struct {
	client          blockchain.Client
	authorityOffset uint64
	logger          *zap.Logger
}

// NewService создает сервис. authorityOffset – смещение authority в данных
// аккаунта (12 – staker, 44 – withdrawer).
func NewService(client blockchain.Client, authorityOffset int, log *zap.Logger) *Service {
	return &Service{
		client:          client,
		authorityOffset: uint64(authorityOffset),
		logger:          log.Named("stake"),
	}
}

// Delegations возвращает делегированные stake-аккаунты владельца. Пустой
// результат не считается ошибкой.
func (s *Service) Delegations(ctx context.Context, owner solana.PublicKey) ([]Delegation, error) {
	log := logger.WithOperation(s.logger, "delegations").With(
		zap.String("owner", logger.ShortenAddress(owner.String())),
		zap.Uint64("authority_offset", s.authorityOffset))

	accounts, err := s.client.GetProgramAccountsWithOpts(ctx, solana.StakeProgramID, &rpc.GetProgramAccountsOpts{
		Encoding: solana.EncodingBase64,
		Filters: []rpc.RPCFilter{{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: s.authorityOffset,
				Bytes:  solana.Base58(owner.Bytes()),
			},
		}},
	})
	if err != nil {
		log.Warn("Failed to fetch stake accounts", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindNetwork, MsgFailed, err)
	}

	delegations := make([]Delegation, 0, len(accounts))
	for _, acc := range accounts {
		if acc == nil || acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		d, ok, err := Decode(acc.Account.Data.GetBinary())
		if err != nil {
			log.Debug("Skipping undecodable stake account",
				zap.String("account", acc.Pubkey.String()),
				zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		d.StakeAccount = acc.Pubkey
		delegations = append(delegations, d)
	}

	log.Debug("Stake accounts fetched",
		zap.Int("accounts", len(accounts)),
		zap.Int("delegated", len(delegations)))
	return delegations, nil
}

// Decode reads a stake account. ok is false for accounts that are not in
// the delegated state.
func Decode(data []byte) (d Delegation, ok bool, err error) {
	l := bin.Layout(data)

	tag, err := l.Uint32(stateTagOffset)
	if err != nil {
		return Delegation{}, false, err
	}
	if tag != stateDelegated {
		return Delegation{}, false, nil
	}

	voter, err := l.PubKey(voterOffset)
	if err != nil {
		return Delegation{}, false, fmt.Errorf("voter: %w", err)
	}
	lamports, err := l.Uint64(stakeOffset)
	if err != nil {
		return Delegation{}, false, fmt.Errorf("stake: %w", err)
	}
	activation, err := l.Uint64(activationEpochOffset)
	if err != nil {
		return Delegation{}, false, fmt.Errorf("activation epoch: %w", err)
	}
	deactivation, err := l.Uint64(deactivationEpochOffset)
	if err != nil {
		return Delegation{}, false, fmt.Errorf("deactivation epoch: %w", err)
	}

	return Delegation{
		Voter:             voter,
		Lamports:          lamports,
		Amount:            portfolio.FormatAmount(portfolio.LamportsToSOL(lamports)),
		ActivationEpoch:   activation,
		DeactivationEpoch: deactivation,
	}, true, nil
}
