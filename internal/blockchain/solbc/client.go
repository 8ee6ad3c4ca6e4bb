// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain"
	"go.uber.org/zap"
)

// Определение ошибок
var (
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	ErrTransactionFailed   = errors.New("transaction failed on chain")

	errNotConfirmedYet = errors.New("transaction not confirmed yet")
)

const (
	defaultConfirmTimeout = 30 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
)

// Recorder получает длительность и исход каждого RPC-вызова.
type Recorder interface {
	ObserveRPC(method string, duration time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRPC(string, time.Duration, error) {}

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc      *rpc.Client
	logger   *zap.Logger
	recorder Recorder

	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// Option настраивает Client.
type Option func(*Client)

// WithRecorder подключает сбор метрик.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithConfirmation задаёт таймаут и интервал опроса подтверждения.
func WithConfirmation(timeout, poll time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.confirmTimeout = timeout
		}
		if poll > 0 {
			c.pollInterval = poll
		}
	}
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		rpc:            rpc.New(rpcURL),
		logger:         logger.Named("solbc-client"),
		recorder:       nopRecorder{},
		confirmTimeout: defaultConfirmTimeout,
		pollInterval:   defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) observe(method string, started time.Time, err error) {
	c.recorder.ObserveRPC(method, time.Since(started), err)
}

// GetBalance получает баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	started := time.Now()
	result, err := c.rpc.GetBalance(ctx, pubkey, commitment)
	c.observe("getBalance", started, err)
	if err != nil {
		c.logger.Error("GetBalance error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// GetTokenAccountsByOwner возвращает токен-аккаунты владельца в формате jsonParsed.
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*rpc.GetTokenAccountsResult, error) {
	program := programID
	started := time.Now()
	result, err := c.rpc.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &program},
		&rpc.GetTokenAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingJSONParsed,
		},
	)
	c.observe("getTokenAccountsByOwner", started, err)
	if err != nil {
		c.logger.Error("GetTokenAccountsByOwner error", zap.String("owner", owner.String()), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetSignaturesForAddress получает последние подписи адреса.
func (c *Client) GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, limit int) ([]*rpc.TransactionSignature, error) {
	started := time.Now()
	result, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, address, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	})
	c.observe("getSignaturesForAddress", started, err)
	if err != nil {
		c.logger.Error("GetSignaturesForAddress error", zap.String("address", address.String()), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetTransaction получает транзакцию, включая версионные (v0).
func (c *Client) GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error) {
	maxVersion := uint64(0)
	started := time.Now()
	result, err := c.rpc.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	c.observe("getTransaction", started, err)
	if err != nil {
		if !errors.Is(err, rpc.ErrNotFound) {
			c.logger.Error("GetTransaction error", zap.String("signature", signature.String()), zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}

// GetAccountInfo получает информацию об аккаунте.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	started := time.Now()
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	c.observe("getAccountInfo", started, err)
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetProgramAccountsWithOpts получает все аккаунты программы с опциями фильтрации
func (c *Client) GetProgramAccountsWithOpts(
	ctx context.Context,
	programID solana.PublicKey,
	opts *rpc.GetProgramAccountsOpts,
) (rpc.GetProgramAccountsResult, error) {
	started := time.Now()
	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, opts)
	c.observe("getProgramAccounts", started, err)
	if err != nil {
		c.logger.Error("GetProgramAccountsWithOpts error",
			zap.String("program_id", programID.String()),
			zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

// GetRecentBlockhash получает последний blockhash.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	started := time.Now()
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	c.observe("getLatestBlockhash", started, err)
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// SendTransaction отправляет транзакцию.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	started := time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	c.observe("sendTransaction", started, err)
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	c.logger.Info("Transaction sent", zap.String("signature", sig.String()))
	return sig, nil
}

// GetSignatureStatuses получает статусы транзакций.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	started := time.Now()
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	c.observe("getSignatureStatuses", started, err)
	if err != nil {
		c.logger.Warn("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// WaitForTransactionConfirmation опрашивает статус подписи с постоянным интервалом,
// пока транзакция не достигнет нужного уровня подтверждения.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	err := waitForConfirmation(ctx, c, signature, commitment, c.confirmTimeout, c.pollInterval)
	if err != nil {
		c.logger.Warn("Transaction not confirmed",
			zap.String("signature", signature.String()),
			zap.Error(err))
		return err
	}
	c.logger.Info("Transaction confirmed", zap.String("signature", signature.String()))
	return nil
}

func waitForConfirmation(
	ctx context.Context,
	getter statusGetter,
	signature solana.Signature,
	commitment rpc.CommitmentType,
	timeout, poll time.Duration,
) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, confirmationStep(ctx, getter, signature, commitment)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(poll)),
		backoff.WithMaxElapsedTime(timeout),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransactionFailed) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w after %s: %v", ErrConfirmationTimeout, timeout, err)
}

type statusGetter interface {
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// confirmationStep возвращает nil когда статус достигнут, Permanent при ошибке
// исполнения и errNotConfirmedYet пока ждём.
func confirmationStep(ctx context.Context, getter statusGetter, signature solana.Signature, commitment rpc.CommitmentType) error {
	statuses, err := getter.GetSignatureStatuses(ctx, signature)
	if err != nil {
		return err
	}
	if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return errNotConfirmedYet
	}

	status := statuses.Value[0]
	if status.Err != nil {
		return backoff.Permanent(fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err))
	}
	if reachedCommitment(status.ConfirmationStatus, commitment) {
		return nil
	}
	return errNotConfirmedYet
}

func reachedCommitment(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch status {
	case rpc.ConfirmationStatusFinalized:
		return true
	case rpc.ConfirmationStatusConfirmed:
		return want != rpc.CommitmentFinalized
	case rpc.ConfirmationStatusProcessed:
		return want == rpc.CommitmentProcessed
	default:
		return false
	}
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
