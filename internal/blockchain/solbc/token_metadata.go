// internal/blockchain/solbc/token_metadata.go
package solbc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain"
	bin "github.com/rovshanmuradov/solana-wallet-tracker/internal/utils/binary"
	"go.uber.org/zap"
)

const (
	metadataTTL = 5 * time.Minute

	// NativeDecimals – точность SOL (1 SOL = 10^9 лампортов).
	NativeDecimals = 9

	// Смещение поля decimals в аккаунте SPL Mint.
	mintDecimalsOffset = 44
)

// NativeMint – адрес wSOL, которым агрегатор обозначает нативный SOL.
var NativeMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// TokenMetadata хранит информацию о токене
type TokenMetadata struct {
	Decimals  uint8
	Name      string
	Source    string // "native", "chain", "fallback"
	UpdatedAt time.Time
}

// TokenMetadataCache разрешает точность и имя токена с кэшированием по TTL.
type TokenMetadataCache struct {
	cache            sync.Map
	logger           *zap.Logger
	client           blockchain.Client
	names            map[string]string
	fallbackDecimals uint8
}

// NewTokenMetadataCache создаёт кэш; names – статический справочник mint → имя.
func NewTokenMetadataCache(client blockchain.Client, names map[string]string, fallbackDecimals uint8, logger *zap.Logger) *TokenMetadataCache {
	if names == nil {
		names = map[string]string{}
	}
	return &TokenMetadataCache{
		logger:           logger.Named("token-metadata"),
		client:           client,
		names:            names,
		fallbackDecimals: fallbackDecimals,
	}
}

// DisplayName возвращает имя известного токена или сам адрес mint.
func (c *TokenMetadataCache) DisplayName(mint string) string {
	if name, ok := c.names[mint]; ok {
		return name
	}
	return mint
}

// Decimals возвращает точность токена. Нативный SOL – 9; для SPL читается
// аккаунт mint, при ошибке используется запасное значение.
func (c *TokenMetadataCache) Decimals(ctx context.Context, mint solana.PublicKey) uint8 {
	return c.GetTokenMetadata(ctx, mint).Decimals
}

// GetTokenMetadata получает метаданные токена с кэшированием
func (c *TokenMetadataCache) GetTokenMetadata(ctx context.Context, mint solana.PublicKey) *TokenMetadata {
	if mint.Equals(NativeMint) {
		return &TokenMetadata{
			Decimals:  NativeDecimals,
			Name:      "SOL",
			Source:    "native",
			UpdatedAt: time.Now(),
		}
	}

	if metadata, ok := c.getFromCache(mint.String()); ok {
		c.logger.Debug("token metadata retrieved from cache",
			zap.String("mint", mint.String()),
			zap.Uint8("decimals", metadata.Decimals))
		return metadata
	}

	metadata, err := c.getFromChain(ctx, mint)
	if err != nil {
		// Запасное значение не кэшируем: следующий запрос попробует снова.
		c.logger.Warn("failed to get on-chain decimals, using fallback",
			zap.String("mint", mint.String()),
			zap.Uint8("fallback", c.fallbackDecimals),
			zap.Error(err))
		return &TokenMetadata{
			Decimals:  c.fallbackDecimals,
			Name:      c.DisplayName(mint.String()),
			Source:    "fallback",
			UpdatedAt: time.Now(),
		}
	}

	metadata.Name = c.DisplayName(mint.String())
	c.cache.Store(mint.String(), metadata)

	c.logger.Debug("token metadata retrieved",
		zap.String("mint", mint.String()),
		zap.Uint8("decimals", metadata.Decimals),
		zap.String("name", metadata.Name))

	return metadata
}

// getFromCache получает метаданные из кэша с проверкой TTL
func (c *TokenMetadataCache) getFromCache(mint string) (*TokenMetadata, bool) {
	if value, ok := c.cache.Load(mint); ok {
		metadata := value.(*TokenMetadata)
		if time.Since(metadata.UpdatedAt) < metadataTTL {
			return metadata, true
		}
		c.cache.Delete(mint)
	}
	return nil, false
}

// getFromChain читает decimals из аккаунта mint
func (c *TokenMetadataCache) getFromChain(ctx context.Context, mint solana.PublicKey) (*TokenMetadata, error) {
	acc, err := c.client.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get mint account: %w", err)
	}

	if acc == nil || acc.Value == nil || acc.Value.Data == nil {
		return nil, fmt.Errorf("mint account not found: %s", mint.String())
	}

	decimals, err := bin.Layout(acc.Value.Data.GetBinary()).Uint8(mintDecimalsOffset)
	if err != nil {
		return nil, fmt.Errorf("invalid mint account: %w", err)
	}

	return &TokenMetadata{
		Decimals:  decimals,
		Source:    "chain",
		UpdatedAt: time.Now(),
	}, nil
}
