package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/blockchain/solbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ solbc.Recorder = (*EndpointRecorder)(nil)

func TestObserveRPC(t *testing.T) {
	c := NewCollector()
	rec := c.Endpoint("main")

	rec.ObserveRPC("getBalance", 20*time.Millisecond, nil)
	rec.ObserveRPC("getBalance", 30*time.Millisecond, nil)
	rec.ObserveRPC("getBalance", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rpcCalls.WithLabelValues("getBalance", "success", "main")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rpcCalls.WithLabelValues("getBalance", "error", "main")))
}

func TestObserveSwap(t *testing.T) {
	c := NewCollector()
	c.ObserveSwap(SwapConfirmed, time.Second)
	c.ObserveSwap(SwapFailed, time.Second)
	c.ObserveSwap(SwapFailed, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.swaps.WithLabelValues(SwapConfirmed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.swaps.WithLabelValues(SwapFailed)))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.Endpoint("stake").ObserveRPC("getProgramAccounts", time.Millisecond, nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wallet_tracker_rpc_calls_total")
	assert.Contains(t, string(body), `endpoint="stake"`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	// each collector owns its registry, so two can coexist
	a := NewCollector()
	b := NewCollector()
	a.ObserveSwap(SwapConfirmed, time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.swaps.WithLabelValues(SwapConfirmed)))
}
