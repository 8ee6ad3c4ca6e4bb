// internal/jupiter/client.go
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// Recorder получает длительность и исход каждого HTTP-вызова.
type Recorder interface {
	ObserveRPC(method string, duration time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRPC(string, time.Duration, error) {}

// Client – клиент HTTP API агрегатора (формат Jupiter v6).
type Client struct {
	http     *http.Client
	logger   *zap.Logger
	baseURL  string
	recorder Recorder
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRecorder подключает сбор метрик.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewClient создает клиент агрегатора. Таймаут запросов задаёт контекст.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:   logger.Named("jupiter"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote запрашивает маршруты. Первый элемент – лучший.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (routes []Route, err error) {
	started := time.Now()
	defer func() { c.recorder.ObserveRPC("quote", time.Since(started), err) }()

	params := url.Values{}
	params.Set("inputMint", req.InputMint)
	params.Set("outputMint", req.OutputMint)
	params.Set("amount", strconv.FormatUint(req.Amount, 10))
	params.Set("slippageBps", strconv.Itoa(req.SlippageBps))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}

	routes, err = decodeRoutes(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("quote received",
		zap.String("input_mint", req.InputMint),
		zap.String("output_mint", req.OutputMint),
		zap.Uint64("amount", req.Amount),
		zap.Int("routes", len(routes)),
		zap.String("best_out", routes[0].OutAmount.String()))

	return routes, nil
}

// SwapTransaction строит транзакцию свапа для маршрута и возвращает её в base64.
func (c *Client) SwapTransaction(ctx context.Context, route Route, user solana.PublicKey) (tx string, err error) {
	started := time.Now()
	defer func() { c.recorder.ObserveRPC("swap", time.Since(started), err) }()

	if len(route.Raw) == 0 {
		return "", errors.New("route has no raw quote")
	}

	payload, err := json.Marshal(swapRequest{
		QuoteResponse:    route.Raw,
		UserPublicKey:    user.String(),
		WrapAndUnwrapSol: true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal swap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return "", fmt.Errorf("swap request: %w", err)
	}

	var resp swapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode swap response: %w", err)
	}
	if resp.SwapTransaction == "" {
		return "", errors.New("swap response has no transaction")
	}
	return resp.SwapTransaction, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request completed",
		zap.String("path", req.URL.Path),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && isNoRoute(apiErr) {
			return nil, fmt.Errorf("%w: %s", ErrNoRoute, apiErr.Error)
		}
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func isNoRoute(e errorResponse) bool {
	return e.ErrorCode == "COULD_NOT_FIND_ANY_ROUTE" ||
		strings.Contains(strings.ToLower(e.Error), "no route") ||
		strings.Contains(strings.ToLower(e.Error), "could not find any route")
}

// decodeRoutes принимает и список {"data": [...]}, и одиночный объект котировки.
func decodeRoutes(body []byte) ([]Route, error) {
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	var raws []json.RawMessage

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return nil, ErrNoRoute
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode quote response: %w", err)
		}
	default:
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode quote response: %w", err)
		}
		if envelope.Data != nil {
			raws = envelope.Data
		} else {
			raws = []json.RawMessage{trimmed}
		}
	}

	routes := make([]Route, 0, len(raws))
	for _, raw := range raws {
		var r routeJSON
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode route: %w", err)
		}
		if r.OutAmount.IsZero() && r.InAmount.IsZero() {
			continue
		}
		route := Route{
			Raw:                  append(json.RawMessage(nil), raw...),
			InputMint:            r.InputMint,
			OutputMint:           r.OutputMint,
			InAmount:             r.InAmount,
			OutAmount:            r.OutAmount,
			OtherAmountThreshold: r.OtherAmountThreshold,
			SlippageBps:          r.SlippageBps,
			PriceImpactPct:       r.PriceImpactPct,
		}
		for _, step := range r.RoutePlan {
			if step.SwapInfo.Label != "" {
				route.Labels = append(route.Labels, step.SwapInfo.Label)
			}
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return nil, ErrNoRoute
	}
	return routes, nil
}
