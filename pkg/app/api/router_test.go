package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	balanceservice "github.com/chainsafe/wallet-dashboard/pkg/balance/service"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer/mocks"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	tokenservice "github.com/chainsafe/wallet-dashboard/pkg/token/service"
	transferservice "github.com/chainsafe/wallet-dashboard/pkg/transfer/service"
)

const addr = "0x00000000000000000000000000000000000000aa"

func newDisabledRouter(t *testing.T) http.Handler {
	t.Helper()
	provider := mocks.NewProvider(t)
	provider.On("Enabled").Return(false)

	logger := zap.NewNop()
	return newRouter(routerDeps{
		registry:  chain.Default(),
		provider:  provider,
		tokens:    tokenservice.NewService(provider, logger),
		transfers: transferservice.NewService(provider, logger),
		balances:  balanceservice.NewService(provider, logger),
		logger:    logger,
	})
}

func do(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := do(newDisabledRouter(t), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	rec := do(newDisabledRouter(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ListNetworks(t *testing.T) {
	rec := do(newDisabledRouter(t), "/v1/chains")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []networkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(chain.Mainnet), got[0].ID)
	assert.Equal(t, "eth-sepolia", got[1].Name)
	assert.True(t, got[1].Testnet)
	assert.False(t, got[0].Enabled)
}

func TestRouter_DisabledQueriesAreUnavailable(t *testing.T) {
	h := newDisabledRouter(t)

	for _, path := range []string{"tokens", "watchlist", "transactions", "balance"} {
		rec := do(h, "/v1/chains/1/addresses/"+addr+"/"+path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), path)
		assert.Equal(t, "unavailable", body["status"], path)
		assert.Equal(t, query.UnavailableMessage, body["message"], path)
		assert.Equal(t, false, body["isError"], path)
	}
}

func TestRouter_BadChainID(t *testing.T) {
	rec := do(newDisabledRouter(t), "/v1/chains/abc/addresses/"+addr+"/tokens")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
