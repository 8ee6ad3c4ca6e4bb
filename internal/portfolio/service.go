// internal/portfolio/service.go
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Namer resolves a mint address into a display name.
type Namer interface {
	DisplayName(mint string) string
}

// Service читает балансы и историю транзакций адреса.
type Service struct {
	client     blockchain.Client
	names      Namer
	nativeMint string
	logger     *zap.Logger
}

// NewService создает сервис портфеля.
func NewService(client blockchain.Client, names Namer, nativeMint solana.PublicKey, log *zap.Logger) *Service {
	return &Service{
		client:     client,
		names:      names,
		nativeMint: nativeMint.String(),
		logger:     log.Named("portfolio"),
	}
}

// ParseAddress validates user input. Blank input yields ok=false and no error.
func ParseAddress(input string) (pk solana.PublicKey, ok bool, err error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return solana.PublicKey{}, false, nil
	}
	pk, err = solana.PublicKeyFromBase58(trimmed)
	if err != nil {
		return solana.PublicKey{}, false, apperr.Wrap(apperr.KindValidation, MsgInvalidAddress, err)
	}
	return pk, true, nil
}

// parsedTokenAccount – содержимое jsonParsed аккаунта SPL Token.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				Amount   string `json:"amount"`
				Decimals uint8  `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// Balances возвращает SOL и все SPL-токены владельца, по убыванию суммы.
// При любой ошибке список не возвращается.
func (s *Service) Balances(ctx context.Context, owner solana.PublicKey) ([]TokenBalance, error) {
	log := logger.WithOperation(s.logger, "balances").With(
		zap.String("owner", logger.ShortenAddress(owner.String())))

	lamports, err := s.client.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		log.Warn("Failed to fetch SOL balance", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindNetwork, MsgBalancesFailed, err)
	}

	accounts, err := s.client.GetTokenAccountsByOwner(ctx, owner, solana.TokenProgramID)
	if err != nil {
		log.Warn("Failed to fetch token accounts", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindNetwork, MsgBalancesFailed, err)
	}

	sol := LamportsToSOL(lamports)
	balances := []TokenBalance{{
		Name:   "SOL",
		Mint:   s.nativeMint,
		Amount: FormatAmount(sol),
		Value:  sol,
		Native: true,
	}}

	if accounts != nil {
		for _, acc := range accounts.Value {
			entry, err := s.tokenBalance(acc)
			if err != nil {
				log.Warn("Failed to decode token account", zap.Error(err))
				return nil, apperr.Wrap(apperr.KindNetwork, MsgBalancesFailed, err)
			}
			balances = append(balances, entry)
		}
	}

	SortBalances(balances)

	log.Debug("Balances fetched", zap.Int("entries", len(balances)))
	return balances, nil
}

func (s *Service) tokenBalance(acc *rpc.TokenAccount) (TokenBalance, error) {
	if acc == nil || acc.Account.Data == nil {
		return TokenBalance{}, errors.New("empty token account")
	}

	var parsed parsedTokenAccount
	if err := json.Unmarshal(acc.Account.Data.GetRawJSON(), &parsed); err != nil {
		return TokenBalance{}, fmt.Errorf("token account %s: %w", acc.Pubkey, err)
	}

	info := parsed.Parsed.Info
	amount, err := FromBaseUnits(info.TokenAmount.Amount, info.TokenAmount.Decimals)
	if err != nil {
		return TokenBalance{}, fmt.Errorf("token account %s amount: %w", acc.Pubkey, err)
	}

	name := info.Mint
	if s.names != nil {
		name = s.names.DisplayName(info.Mint)
	}
	return TokenBalance{
		Name:   name,
		Mint:   info.Mint,
		Amount: FormatAmount(amount),
		Value:  amount,
	}, nil
}

// SortBalances orders entries by amount, largest first. Equal amounts keep
// their relative order.
func SortBalances(balances []TokenBalance) {
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Value.GreaterThan(balances[j].Value)
	})
}

// History возвращает до HistoryLimit последних транзакций адреса, новые
// первыми. Транзакции, которых узел не нашёл, пропускаются.
func (s *Service) History(ctx context.Context, address solana.PublicKey) ([]TransactionRecord, error) {
	log := logger.WithOperation(s.logger, "history").With(
		zap.String("address", logger.ShortenAddress(address.String())))

	sigs, err := s.client.GetSignaturesForAddress(ctx, address, HistoryLimit)
	if err != nil {
		log.Warn("Failed to fetch signatures", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindNetwork, MsgHistoryFailed, err)
	}
	if len(sigs) > HistoryLimit {
		sigs = sigs[:HistoryLimit]
	}

	results := make([]*TransactionRecord, len(sigs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sig := range sigs {
		if sig == nil {
			continue
		}
		g.Go(func() error {
			tx, err := s.client.GetTransaction(gctx, sig.Signature)
			if err != nil {
				if errors.Is(err, rpc.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("get transaction %s: %w", sig.Signature, err)
			}
			if tx == nil {
				return nil
			}
			results[i] = newRecord(sig.Signature, tx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("Failed to fetch transactions", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindNetwork, MsgHistoryFailed, err)
	}

	records := make([]TransactionRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	log.Debug("History fetched",
		zap.Int("signatures", len(sigs)),
		zap.Int("transactions", len(records)))
	return records, nil
}

func newRecord(sig solana.Signature, tx *rpc.GetTransactionResult) *TransactionRecord {
	rec := &TransactionRecord{
		Signature: sig.String(),
		Slot:      tx.Slot,
	}
	if tx.BlockTime != nil {
		t := tx.BlockTime.Time()
		rec.BlockTime = &t
	}

	if tx.Transaction != nil {
		if decoded, err := tx.Transaction.GetTransaction(); err == nil && decoded != nil {
			rec.BlockHash = decoded.Message.RecentBlockhash.String()
			rec.AccountKeys = append(rec.AccountKeys, decoded.Message.AccountKeys...)
		}
	}

	if tx.Meta != nil {
		rec.PreBalances = tx.Meta.PreBalances
		rec.PostBalances = tx.Meta.PostBalances
		rec.Failed = tx.Meta.Err != nil
		// v0 транзакции: ключи из lookup-таблиц идут после статических
		if len(rec.AccountKeys) > 0 {
			rec.AccountKeys = append(rec.AccountKeys, tx.Meta.LoadedAddresses.Writable...)
			rec.AccountKeys = append(rec.AccountKeys, tx.Meta.LoadedAddresses.ReadOnly...)
		}
	}
	return rec
}

// FormatBlockTime renders a block time for the history table.
func FormatBlockTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
