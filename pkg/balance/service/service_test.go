package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/wallet-dashboard/pkg/app/errors"
	"github.com/chainsafe/wallet-dashboard/pkg/balance"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer/mocks"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
)

const owner = "0x00000000000000000000000000000000000000aa"

func setup(t *testing.T) (*mocks.Provider, *mocks.API) {
	t.Helper()
	network, _ := chain.Default().NetworkFor(chain.Mainnet)
	api := mocks.NewAPI(t, network)
	provider := mocks.NewProvider(t)
	provider.On("Enabled").Return(true).Maybe()
	provider.On("ClientFor", chain.Mainnet).Return(api).Maybe()
	return provider, api
}

func TestGetNativeBalance(t *testing.T) {
	provider, api := setup(t)
	wei, _ := new(big.Int).SetString("2500000000000000000", 10)
	api.On("NativeBalance", mock.Anything, owner).Return(wei, nil).Once()

	got, err := NewService(provider, zap.NewNop()).GetNativeBalance(context.Background(), owner, chain.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "ETH", got.Currency)
	assert.Equal(t, "2.5000", got.Display())
}

func TestGetNativeBalance_Disabled(t *testing.T) {
	provider := mocks.NewProvider(t)
	provider.On("Enabled").Return(false)

	svc := NewService(provider, zap.NewNop())
	got, err := svc.GetNativeBalance(context.Background(), owner, chain.Mainnet)
	require.NoError(t, err)
	require.NotNil(t, got.Wei)
	assert.Zero(t, got.Wei.Sign())
	assert.False(t, svc.Available(chain.Mainnet))
}

func TestGetNativeBalance_Failure(t *testing.T) {
	provider, api := setup(t)
	api.On("NativeBalance", mock.Anything, owner).Return(nil, context.DeadlineExceeded).Once()

	_, err := NewService(provider, zap.NewNop()).GetNativeBalance(context.Background(), owner, chain.Mainnet)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryConnectionTimeout))
}

type stubService struct {
	wei   *big.Int
	err   error
	calls int
}

func (s *stubService) GetNativeBalance(context.Context, string, chain.ID) (balance.Native, error) {
	s.calls++
	return balance.Native{Wei: s.wei, Currency: "ETH"}, s.err
}

func (s *stubService) Available(id chain.ID) bool { return id == chain.Mainnet }

func serve(t *testing.T, h http.Handler, path string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBalanceHTTP(t *testing.T) {
	svc := &stubService{wei: big.NewInt(1_000_000_000_000_000)}
	r := chi.NewRouter()
	r.Route("/v1/chains/{chainID}/addresses/{address}", func(r chi.Router) {
		RegisterRoutes(r, svc, nil, zap.NewNop())
	})

	body := serve(t, r, "/v1/chains/1/addresses/"+owner+"/balance")
	data := body["data"].(map[string]any)
	assert.Equal(t, "1000000000000000", data["wei"])
	assert.Equal(t, "0.0010", data["display"])
	assert.Equal(t, "ETH", data["currency"])

	serve(t, r, "/v1/chains/1/addresses/"+owner+"/balance")
	assert.Equal(t, 1, svc.calls)

	body = serve(t, r, "/v1/chains/11155111/addresses/"+owner+"/balance")
	assert.Equal(t, "unavailable", body["status"])
	assert.Nil(t, body["data"])
}

func TestBalanceHTTP_FailureWithoutData(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}
	r := chi.NewRouter()
	r.Route("/v1/chains/{chainID}/addresses/{address}", func(r chi.Router) {
		RegisterRoutes(r, svc, nil, zap.NewNop())
	})

	body := serve(t, r, "/v1/chains/1/addresses/"+owner+"/balance")
	assert.Equal(t, true, body["isError"])
	assert.Equal(t, query.FailedMessage, body["error"])
	assert.Nil(t, body["data"])
}
