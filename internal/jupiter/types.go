// internal/jupiter/types.go
package jupiter

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoRoute is returned when the aggregator finds no route for a pair.
var ErrNoRoute = errors.New("no route found")

// QuoteRequest описывает запрос котировки. Amount задаётся в базовых единицах
// входного токена.
type QuoteRequest struct {
	InputMint   string
	OutputMint  string
	Amount      uint64
	SlippageBps int
}

// Route – один маршрут из ответа /quote. Raw передаётся в /swap без изменений.
type Route struct {
	Raw json.RawMessage

	InputMint            string
	OutputMint           string
	InAmount             decimal.Decimal
	OutAmount            decimal.Decimal
	OtherAmountThreshold decimal.Decimal
	SlippageBps          int
	PriceImpactPct       decimal.Decimal
	Labels               []string
}

// Venues joins the AMM labels of the route plan for display.
func (r Route) Venues() string {
	if len(r.Labels) == 0 {
		return "unknown"
	}
	return strings.Join(r.Labels, " → ")
}

// routeJSON – поля маршрута, нужные для отображения.
type routeJSON struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             decimal.Decimal `json:"inAmount"`
	OutAmount            decimal.Decimal `json:"outAmount"`
	OtherAmountThreshold decimal.Decimal `json:"otherAmountThreshold"`
	SlippageBps          int             `json:"slippageBps"`
	PriceImpactPct       decimal.Decimal `json:"priceImpactPct"`
	RoutePlan            []struct {
		SwapInfo struct {
			Label string `json:"label"`
		} `json:"swapInfo"`
	} `json:"routePlan"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}

type swapRequest struct {
	QuoteResponse    json.RawMessage `json:"quoteResponse"`
	UserPublicKey    string          `json:"userPublicKey"`
	WrapAndUnwrapSol bool            `json:"wrapAndUnwrapSol"`
}

type swapResponse struct {
	SwapTransaction      string `json:"swapTransaction"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}
