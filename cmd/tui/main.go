package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/config"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/jupiter"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/logger"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/stake"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/utils/metrics"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/wallet"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	appTitle           = "Solana Wallet"
	logFlushInterval   = 5 * time.Second
	metricsStopTimeout = 3 * time.Second
)

func main() {
	app := &cli.App{
		Name:  "tracker",
		Usage: "Terminal wallet for Solana: balances, history, swaps and stake",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "configs/config.json",
				EnvVars: []string{"WALLET_TRACKER_CONFIG"},
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			keystoreCommands(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runTUI(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rootCtx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Консольный логгер нужен только буферу для его собственных ошибок:
	// после входа в alt screen всё остальное пишется в буфер.
	pretty, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = pretty.Sync() }()

	buffer, err := logger.NewLogBuffer(cfg.LogBufferSize, cfg.LogFile, pretty)
	if err != nil {
		return fmt.Errorf("failed to init log buffer: %w", err)
	}
	stopFlush := buffer.StartPeriodicFlush(logFlushInterval)
	defer func() {
		close(stopFlush)
		_ = buffer.Close()
	}()

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		return fmt.Errorf("failed to init TUI logger: %w", err)
	}
	appLogger.Info("Starting wallet tracker",
		zap.String("rpc", cfg.RPCURL),
		zap.String("aggregator", cfg.AggregatorURL))

	collector := metrics.NewCollector()
	mainClient := solbc.NewClient(cfg.RPCURL, appLogger,
		solbc.WithRecorder(collector.Endpoint("main")),
		solbc.WithConfirmation(cfg.ConfirmTimeout(), cfg.ConfirmPollInterval()))
	stakeClient := solbc.NewClient(cfg.StakeRPCURL, appLogger.Named("stake_rpc"),
		solbc.WithRecorder(collector.Endpoint("stake")))

	tokens := solbc.NewTokenMetadataCache(mainClient, cfg.KnownTokenNames(), uint8(cfg.FallbackDecimals), appLogger)
	aggregator := newAggregator(cfg.AggregatorURL, collector, appLogger)

	session := wallet.NewSession(wallet.NewKeystore(cfg.KeystorePath), appLogger)
	defer session.Disconnect()

	services := ui.NewRealServiceProvider(
		rootCtx,
		appLogger,
		session,
		portfolio.NewService(mainClient, tokens, solbc.NativeMint, appLogger),
		swap.NewService(mainClient, aggregator, session, tokens, cfg.SlippageBps, appLogger,
			swap.WithRecorder(collector)),
		stake.NewService(stakeClient, cfg.StakeAuthorityOffset, appLogger),
		clipboard.WriteAll,
	)

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, collector, appLogger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), metricsStopTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	model := NewAppModel(services, buffer, AppOptions{
		Title:        appTitle,
		Network:      networkLabel(cfg.RPCURL),
		KeystorePath: cfg.KeystorePath,
	})

	program := tea.NewProgram(
		ui.NewSafeUIWrapper(model, appLogger),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		appLogger.Error("TUI application failed", zap.Error(err))
		return err
	}

	appLogger.Info("Shutting down wallet tracker")
	return nil
}

// newAggregator returns nil when no aggregator is configured, which leaves
// the swap service reporting itself unavailable.
func newAggregator(baseURL string, collector *metrics.Collector, log *zap.Logger) swap.Aggregator {
	if baseURL == "" {
		log.Warn("Swap aggregator not configured")
		return nil
	}
	return jupiter.NewClient(baseURL, log, jupiter.WithRecorder(collector.Endpoint("aggregator")))
}

func startMetricsServer(addr string, collector *metrics.Collector, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Metrics endpoint listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}

// networkLabel shows the RPC host in the header.
func networkLabel(rpcURL string) string {
	u, err := url.Parse(rpcURL)
	if err != nil || u.Host == "" {
		return rpcURL
	}
	return u.Hostname()
}
