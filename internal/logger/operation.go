package logger

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithOperation returns a child logger tagged with the operation name and a
// fresh correlation id, so every line of one fetch or swap can be grouped.
func WithOperation(log *zap.Logger, operation string) *zap.Logger {
	return log.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
		zap.Time("start_time", time.Now().UTC()),
	)
}

// ShortenAddress trims a base58 address or signature for display.
func ShortenAddress(addr string) string {
	if len(addr) > 12 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}
