// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// KnownToken maps a mint address to a display name.
type KnownToken struct {
	Mint string `mapstructure:"mint"`
	Name string `mapstructure:"name"`
}

type Config struct {
	RPCURL               string       `mapstructure:"rpc_url"`
	StakeRPCURL          string       `mapstructure:"stake_rpc_url"`
	AggregatorURL        string       `mapstructure:"aggregator_url"`
	KeystorePath         string       `mapstructure:"keystore_path"`
	SlippageBps          int          `mapstructure:"slippage_bps"`
	FallbackDecimals     int          `mapstructure:"fallback_decimals"`
	ConfirmTimeoutSec    int          `mapstructure:"confirm_timeout_sec"`
	ConfirmPollMs        int          `mapstructure:"confirm_poll_ms"`
	StakeAuthorityOffset int          `mapstructure:"stake_authority_offset"`
	KnownTokens          []KnownToken `mapstructure:"known_tokens"`
	DebugLogging         bool         `mapstructure:"debug_logging"`
	LogFile              string       `mapstructure:"log_file"`
	LogBufferSize        int          `mapstructure:"log_buffer_size"`
	MetricsAddr          string       `mapstructure:"metrics_addr"`
}

const (
	DefaultRPCURL               = "https://api.mainnet-beta.solana.com"
	DefaultAggregatorURL        = "https://quote-api.jup.ag/v6"
	DefaultKeystorePath         = "keystore/wallet.json"
	DefaultSlippageBps          = 100
	DefaultFallbackDecimals     = 6
	DefaultConfirmTimeoutSec    = 30
	DefaultConfirmPollMs        = 500
	DefaultStakeAuthorityOffset = 12
	DefaultLogFile              = "logs/tracker.log"
	DefaultLogBufferSize        = 1000

	envPrefix = "WALLET_TRACKER"
)

// DefaultKnownTokens returns the compiled-in display names.
func DefaultKnownTokens() []KnownToken {
	return []KnownToken{
		{Mint: "So11111111111111111111111111111111111111112", Name: "wSOL"},
		{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Name: "USDC"},
		{Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Name: "USDT"},
		{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Name: "BONK"},
		{Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Name: "JUP"},
	}
}

// LoadConfig reads path on top of the compiled-in defaults. An empty or
// missing path leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_url":                DefaultRPCURL,
		"stake_rpc_url":          "",
		"aggregator_url":         DefaultAggregatorURL,
		"keystore_path":          DefaultKeystorePath,
		"slippage_bps":           DefaultSlippageBps,
		"fallback_decimals":      DefaultFallbackDecimals,
		"confirm_timeout_sec":    DefaultConfirmTimeoutSec,
		"confirm_poll_ms":        DefaultConfirmPollMs,
		"stake_authority_offset": DefaultStakeAuthorityOffset,
		"known_tokens":           DefaultKnownTokens(),
		"debug_logging":          false,
		"log_file":               DefaultLogFile,
		"log_buffer_size":        DefaultLogBufferSize,
		"metrics_addr":           "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.StakeRPCURL == "" {
		cfg.StakeRPCURL = cfg.RPCURL
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	urls := map[string]string{
		"rpc_url":       cfg.RPCURL,
		"stake_rpc_url": cfg.StakeRPCURL,
	}
	// Пустой aggregator_url отключает свапы.
	if cfg.AggregatorURL != "" {
		urls["aggregator_url"] = cfg.AggregatorURL
	}
	for name, raw := range urls {
		if err := validateURL(raw, "http"); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if cfg.KeystorePath == "" {
		return errors.New("keystore_path is empty")
	}
	if cfg.SlippageBps <= 0 || cfg.SlippageBps > 10000 {
		return errors.New("invalid slippage_bps")
	}
	if cfg.FallbackDecimals < 0 || cfg.FallbackDecimals > 18 {
		return errors.New("invalid fallback_decimals")
	}
	if cfg.ConfirmTimeoutSec <= 0 {
		return errors.New("invalid confirm_timeout_sec")
	}
	if cfg.ConfirmPollMs <= 0 {
		return errors.New("invalid confirm_poll_ms")
	}
	if cfg.StakeAuthorityOffset < 0 {
		return errors.New("invalid stake_authority_offset")
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	for _, token := range cfg.KnownTokens {
		if token.Mint == "" || token.Name == "" {
			return errors.New("known_tokens entries need mint and name")
		}
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

// ConfirmTimeout returns the confirmation wait as a duration.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSec) * time.Second
}

// ConfirmPollInterval returns the signature status poll interval.
func (c *Config) ConfirmPollInterval() time.Duration {
	return time.Duration(c.ConfirmPollMs) * time.Millisecond
}

// KnownTokenNames returns the mint→name lookup.
func (c *Config) KnownTokenNames() map[string]string {
	names := make(map[string]string, len(c.KnownTokens))
	for _, token := range c.KnownTokens {
		names[token.Mint] = token.Name
	}
	return names
}
