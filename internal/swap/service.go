// internal/swap/service.go
package swap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/jupiter"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/logger"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/utils/metrics"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/wallet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// User-facing messages, checked in this order.
const (
	MsgConnectWallet   = "Please connect your wallet first."
	MsgFieldsRequired  = "All fields are required."
	MsgUnavailable     = "Swap service is not available."
	MsgInvalidAmount   = "Enter a valid amount."
	MsgInvalidMint     = "Invalid token mint."
	MsgSameToken       = "Input and output tokens must differ."
	MsgFailed          = "Swap failed. Please try again."
	msgConfirmedPrefix = "Swap confirmed: "
)

// Aggregator – источник маршрутов и транзакций свапа.
type Aggregator interface {
	Quote(ctx context.Context, req jupiter.QuoteRequest) ([]jupiter.Route, error)
	SwapTransaction(ctx context.Context, route jupiter.Route, user solana.PublicKey) (string, error)
}

// DecimalsResolver returns the precision of a mint.
type DecimalsResolver interface {
	Decimals(ctx context.Context, mint solana.PublicKey) uint8
}

// Recorder получает исход каждой попытки свапа.
type Recorder interface {
	ObserveSwap(outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSwap(string, time.Duration) {}

// Request – поля формы свапа. Amount задаётся в единицах токена.
type Request struct {
	InputMint  string
	OutputMint string
	Amount     string
}

// Result описывает подтверждённый свап.
type Result struct {
	Signature solana.Signature
	Route     jupiter.Route
	InAmount  decimal.Decimal
	OutAmount decimal.Decimal
}

// Message returns the status line shown after a confirmed swap.
func (r *Result) Message() string {
	return msgConfirmedPrefix + r.Signature.String()
}

// Service выполняет свап: котировка, сборка, подпись, отправка, подтверждение.
type Service struct {
	client      blockchain.Client
	aggregator  Aggregator
	signer      wallet.Signer
	decimals    DecimalsResolver
	slippageBps int
	recorder    Recorder
	logger      *zap.Logger
}

// Option настраивает Service.
type Option func(*Service)

// WithRecorder подключает сбор метрик.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService создает сервис свапа. aggregator может быть nil, тогда каждая
// попытка завершается сообщением о недоступности сервиса.
func NewService(
	client blockchain.Client,
	aggregator Aggregator,
	signer wallet.Signer,
	decimals DecimalsResolver,
	slippageBps int,
	log *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		client:      client,
		aggregator:  aggregator,
		signer:      signer,
		decimals:    decimals,
		slippageBps: slippageBps,
		recorder:    nopRecorder{},
		logger:      log.Named("swap"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type validated struct {
	user   solana.PublicKey
	input  solana.PublicKey
	output solana.PublicKey
	amount decimal.Decimal
}

// Validate checks preconditions and form values without touching the network.
func (s *Service) Validate(req Request) error {
	_, err := s.validate(req)
	return err
}

func (s *Service) validate(req Request) (*validated, error) {
	var user solana.PublicKey
	connected := false
	if s.signer != nil {
		user, connected = s.signer.PublicKey()
	}
	if !connected {
		return nil, apperr.New(apperr.KindWallet, MsgConnectWallet)
	}

	in := strings.TrimSpace(req.InputMint)
	out := strings.TrimSpace(req.OutputMint)
	amountText := strings.TrimSpace(req.Amount)
	if in == "" || out == "" || amountText == "" {
		return nil, apperr.New(apperr.KindValidation, MsgFieldsRequired)
	}

	if s.aggregator == nil {
		return nil, apperr.New(apperr.KindNoRoute, MsgUnavailable)
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil || !amount.IsPositive() {
		return nil, apperr.Wrap(apperr.KindValidation, MsgInvalidAmount, err)
	}

	inMint, err := solana.PublicKeyFromBase58(in)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, MsgInvalidMint, err)
	}
	outMint, err := solana.PublicKeyFromBase58(out)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, MsgInvalidMint, err)
	}
	if inMint.Equals(outMint) {
		return nil, apperr.New(apperr.KindValidation, MsgSameToken)
	}

	return &validated{user: user, input: inMint, output: outMint, amount: amount}, nil
}

// ToBaseUnits scales a token amount by 10^decimals, dropping any remainder.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	scaled := amount.Shift(int32(decimals)).Truncate(0)
	if !scaled.IsPositive() {
		return 0, errors.New("amount is below the smallest unit")
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, errors.New("amount overflows uint64")
	}
	return bi.Uint64(), nil
}

// Execute выполняет свап. Повторных попыток нет: любая ошибка после
// валидации возвращается как MsgFailed, причина уходит в лог.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	v, err := s.validate(req)
	if err != nil {
		s.recorder.ObserveSwap(metrics.SwapRejected, time.Since(started))
		return nil, err
	}

	log := logger.WithOperation(s.logger, "swap").With(
		zap.String("user", logger.ShortenAddress(v.user.String())),
		zap.String("input_mint", v.input.String()),
		zap.String("output_mint", v.output.String()),
		zap.String("amount", v.amount.String()))

	inDecimals := s.decimals.Decimals(ctx, v.input)
	baseAmount, err := ToBaseUnits(v.amount, inDecimals)
	if err != nil {
		log.Info("Swap amount rejected", zap.Uint8("decimals", inDecimals), zap.Error(err))
		s.recorder.ObserveSwap(metrics.SwapRejected, time.Since(started))
		return nil, apperr.Wrap(apperr.KindValidation, MsgInvalidAmount, err)
	}

	result, err := s.execute(ctx, log, v, baseAmount)
	if err != nil {
		log.Error("Swap failed",
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		s.recorder.ObserveSwap(metrics.SwapFailed, time.Since(started))
		return nil, err
	}

	outDecimals := s.decimals.Decimals(ctx, v.output)
	result.InAmount = result.Route.InAmount.Shift(-int32(inDecimals))
	result.OutAmount = result.Route.OutAmount.Shift(-int32(outDecimals))

	log.Info("Swap confirmed",
		zap.String("signature", result.Signature.String()),
		zap.String("out_amount", result.OutAmount.String()),
		zap.Duration("elapsed", time.Since(started)))
	s.recorder.ObserveSwap(metrics.SwapConfirmed, time.Since(started))
	return result, nil
}

func (s *Service) execute(ctx context.Context, log *zap.Logger, v *validated, amount uint64) (*Result, error) {
	routes, err := s.aggregator.Quote(ctx, jupiter.QuoteRequest{
		InputMint:   v.input.String(),
		OutputMint:  v.output.String(),
		Amount:      amount,
		SlippageBps: s.slippageBps,
	})
	if err != nil {
		kind := apperr.KindNetwork
		if errors.Is(err, jupiter.ErrNoRoute) {
			kind = apperr.KindNoRoute
		}
		return nil, apperr.Wrap(kind, MsgFailed, fmt.Errorf("quote: %w", err))
	}
	best := routes[0]
	log.Debug("Route selected",
		zap.Int("routes", len(routes)),
		zap.String("venues", best.Venues()),
		zap.String("out_amount", best.OutAmount.String()))

	encoded, err := s.aggregator.SwapTransaction(ctx, best, v.user)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, MsgFailed, fmt.Errorf("build swap transaction: %w", err))
	}

	tx, err := solana.TransactionFromBase64(encoded)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, MsgFailed, fmt.Errorf("decode swap transaction: %w", err))
	}

	blockhash, err := s.client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, MsgFailed, fmt.Errorf("get blockhash: %w", err))
	}
	tx.Message.RecentBlockhash = blockhash

	if len(tx.Message.AccountKeys) == 0 || !tx.Message.AccountKeys[0].Equals(v.user) {
		return nil, apperr.Wrap(apperr.KindBroadcast, MsgFailed, errors.New("fee payer is not the connected wallet"))
	}

	// подписи-заглушки агрегатора заменяются подписью кошелька
	tx.Signatures = nil
	if err := s.signer.SignTransaction(tx); err != nil {
		return nil, apperr.Wrap(apperr.KindWallet, MsgFailed, fmt.Errorf("sign: %w", err))
	}

	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBroadcast, MsgFailed, fmt.Errorf("send: %w", err))
	}
	log.Info("Swap transaction sent", zap.String("signature", sig.String()))

	if err := s.client.WaitForTransactionConfirmation(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return nil, apperr.Wrap(apperr.KindBroadcast, MsgFailed, fmt.Errorf("confirm %s: %w", sig, err))
	}

	return &Result{Signature: sig, Route: best}, nil
}
