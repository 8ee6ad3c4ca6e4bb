package jupiter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	solMint  = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

const quoteV6 = `{
  "inputMint": "So11111111111111111111111111111111111111112",
  "inAmount": "1000000000",
  "outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
  "outAmount": "171234567",
  "otherAmountThreshold": "169522221",
  "swapMode": "ExactIn",
  "slippageBps": 100,
  "priceImpactPct": "0.0012",
  "routePlan": [
    {"swapInfo": {"label": "Whirlpool"}, "percent": 100},
    {"swapInfo": {"label": "Raydium"}, "percent": 100}
  ]
}`

type countingRecorder struct {
	calls map[string]int
	errs  map[string]int
}

func (r *countingRecorder) ObserveRPC(method string, _ time.Duration, err error) {
	r.calls[method]++
	if err != nil {
		r.errs[method]++
	}
}

func TestQuoteSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, solMint, q.Get("inputMint"))
		assert.Equal(t, usdcMint, q.Get("outputMint"))
		assert.Equal(t, "1000000000", q.Get("amount"))
		assert.Equal(t, "100", q.Get("slippageBps"))
		_, _ = io.WriteString(w, quoteV6)
	}))
	defer srv.Close()

	rec := &countingRecorder{calls: map[string]int{}, errs: map[string]int{}}
	c := NewClient(srv.URL+"/", zap.NewNop(), WithRecorder(rec))

	routes, err := c.Quote(context.Background(), QuoteRequest{
		InputMint: solMint, OutputMint: usdcMint, Amount: 1_000_000_000, SlippageBps: 100,
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	best := routes[0]
	assert.True(t, best.InAmount.Equal(decimal.NewFromInt(1_000_000_000)))
	assert.True(t, best.OutAmount.Equal(decimal.NewFromInt(171234567)))
	assert.Equal(t, 100, best.SlippageBps)
	assert.Equal(t, []string{"Whirlpool", "Raydium"}, best.Labels)
	assert.Equal(t, "Whirlpool → Raydium", best.Venues())
	assert.JSONEq(t, quoteV6, string(best.Raw))
	assert.Equal(t, 1, rec.calls["quote"])
	assert.Zero(t, rec.errs["quote"])
}

func TestQuoteDataList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[
			{"inAmount":"10","outAmount":"20","routePlan":[]},
			{"inAmount":"10","outAmount":"19"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	routes, err := c.Quote(context.Background(), QuoteRequest{InputMint: solMint, OutputMint: usdcMint, Amount: 10})
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.True(t, routes[0].OutAmount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "unknown", routes[0].Venues())
}

func TestQuoteNoRoute(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty data", http.StatusOK, `{"data":[]}`},
		{"error code", http.StatusBadRequest, `{"error":"Could not find any route","errorCode":"COULD_NOT_FIND_ANY_ROUTE"}`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, zap.NewNop()).Quote(context.Background(), QuoteRequest{Amount: 1})
			assert.ErrorIs(t, err, ErrNoRoute)
		})
	}
}

func TestQuoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, zap.NewNop()).Quote(context.Background(), QuoteRequest{Amount: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRoute)
	assert.Contains(t, err.Error(), "502")
}

func TestSwapTransaction(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/swap", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, quoteV6, string(body["quoteResponse"]))
		assert.Equal(t, `"`+user.String()+`"`, string(body["userPublicKey"]))
		assert.Equal(t, "true", string(body["wrapAndUnwrapSol"]))

		_, _ = io.WriteString(w, `{"swapTransaction":"AQID","lastValidBlockHeight":42}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	tx, err := c.SwapTransaction(context.Background(), Route{Raw: json.RawMessage(quoteV6)}, user)
	require.NoError(t, err)
	assert.Equal(t, "AQID", tx)
}

func TestSwapTransactionMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.SwapTransaction(context.Background(), Route{Raw: json.RawMessage(quoteV6)}, solana.NewWallet().PublicKey())
	assert.Error(t, err)

	_, err = c.SwapTransaction(context.Background(), Route{}, solana.NewWallet().PublicKey())
	assert.Error(t, err)
}
