package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	"github.com/chainsafe/wallet-dashboard/pkg/token"
)

const validAddr = "0x00000000000000000000000000000000000000aa"

// stubService is a hand-written Service for route tests.
type stubService struct {
	available    bool
	holdings     []token.Holding
	balances     []token.Balance
	err          error
	holdingCalls atomic.Int32
	balanceCalls atomic.Int32
	lastAddress  string
	lastChainID  chain.ID
}

func (s *stubService) GetTokenHoldings(_ context.Context, address string, chainID chain.ID) ([]token.Holding, error) {
	s.holdingCalls.Add(1)
	s.lastAddress, s.lastChainID = address, chainID
	return s.holdings, s.err
}

func (s *stubService) GetWatchlistBalances(_ context.Context, address string, chainID chain.ID) ([]token.Balance, error) {
	s.balanceCalls.Add(1)
	return s.balances, s.err
}

func (s *stubService) Available(chain.ID) bool { return s.available }

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/v1/chains/{chainID}/addresses/{address}", func(r chi.Router) {
		RegisterRoutes(r, svc, Stores{}, zap.NewNop())
	})
	return r
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestTokensHTTP_Ready(t *testing.T) {
	svc := &stubService{
		available: true,
		holdings: []token.Holding{{
			Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
			Balance:  big.NewInt(500_000_000),
		}},
	}
	h := newTestRouter(svc)

	rec, body := get(t, h, "/v1/chains/1/addresses/"+validAddr+"/tokens")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, false, body["isLoading"])
	assert.Equal(t, false, body["isError"])
	assert.Equal(t, "ready", body["status"])

	data := body["data"].([]any)
	require.Len(t, data, 1)
	holding := data[0].(map[string]any)
	assert.Equal(t, "USDC", holding["symbol"])
	assert.Equal(t, "500000000", holding["balance"])
	assert.Equal(t, "500.0000", holding["display"])
	assert.EqualValues(t, 6, holding["decimals"])

	assert.Equal(t, validAddr, svc.lastAddress)
	assert.Equal(t, chain.Mainnet, svc.lastChainID)
}

func TestTokensHTTP_CachesAndRefreshes(t *testing.T) {
	svc := &stubService{available: true, holdings: []token.Holding{}}
	h := newTestRouter(svc)

	get(t, h, "/v1/chains/1/addresses/"+validAddr+"/tokens")
	get(t, h, "/v1/chains/1/addresses/0x00000000000000000000000000000000000000AA/tokens")
	assert.Equal(t, int32(1), svc.holdingCalls.Load())

	get(t, h, "/v1/chains/1/addresses/"+validAddr+"/tokens?refresh=true")
	assert.Equal(t, int32(2), svc.holdingCalls.Load())

	get(t, h, "/v1/chains/11155111/addresses/"+validAddr+"/tokens")
	assert.Equal(t, int32(3), svc.holdingCalls.Load())
}

func TestTokensHTTP_Failure(t *testing.T) {
	svc := &stubService{available: true, err: errors.New("401 from https://eth-mainnet.g.alchemy.com/v2/secret")}
	h := newTestRouter(svc)

	rec, body := get(t, h, "/v1/chains/1/addresses/"+validAddr+"/tokens")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["isError"])
	assert.Equal(t, query.FailedMessage, body["error"])
	assert.Equal(t, []any{}, body["data"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestTokensHTTP_Unavailable(t *testing.T) {
	svc := &stubService{available: false}
	h := newTestRouter(svc)

	rec, body := get(t, h, "/v1/chains/137/addresses/"+validAddr+"/tokens")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, query.UnavailableMessage, body["message"])
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, int32(0), svc.holdingCalls.Load())
}

func TestTokensHTTP_BadRequest(t *testing.T) {
	h := newTestRouter(&stubService{available: true})

	rec, body := get(t, h, "/v1/chains/mainnet/addresses/"+validAddr+"/tokens")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid chain id", body["error"])

	rec, body = get(t, h, "/v1/chains/1/addresses/0xnothex/tokens")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid address", body["error"])
}

func TestWatchlistHTTP(t *testing.T) {
	list := token.Watchlist(chain.Mainnet)
	svc := &stubService{
		available: true,
		balances: []token.Balance{
			{Token: list[0], Balance: big.NewInt(2_000_000)},
			{Token: list[1], Balance: new(big.Int)},
		},
	}
	h := newTestRouter(svc)

	rec, body := get(t, h, "/v1/chains/1/addresses/"+validAddr+"/watchlist")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "USDC", first["symbol"])
	assert.Equal(t, "2.0000", first["display"])
	second := data[1].(map[string]any)
	assert.Equal(t, "0", second["balance"])
	assert.Equal(t, int32(1), svc.balanceCalls.Load())
}
