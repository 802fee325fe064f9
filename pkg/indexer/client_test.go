package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcHandler func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError)

// newRPCServer serves single (non-batch) JSON-RPC requests through handle.
func newRPCServer(t *testing.T, handle rpcHandler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, rpcErr := handle(t, req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	network, _ := chain.Default().NetworkFor(chain.Sepolia)
	c, err := NewClient(context.Background(), network, srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

var errInvalidParams = &rpcError{Code: -32602, Message: "invalid params"}

// decodeParam runs on the server goroutine, so it only asserts.
func decodeParam[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	assert.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestClient_GetTokenBalances(t *testing.T) {
	owner := "0x00000000000000000000000000000000000000aa"

	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, methodTokenBalances, method)
		if !assert.Len(t, params, 2) {
			return nil, errInvalidParams
		}
		assert.Equal(t, owner, decodeParam[string](t, params[0]))
		assert.Equal(t, "erc20", decodeParam[string](t, params[1]))

		return map[string]any{
			"address": owner,
			"tokenBalances": []map[string]any{
				{"contractAddress": "0xusdc", "tokenBalance": "0x1dcd6500"},
				{"contractAddress": "0xempty", "tokenBalance": "0x"},
				{"contractAddress": "0xbroken", "tokenBalance": "0xzz"},
				{"contractAddress": "0xnull", "tokenBalance": nil},
				{"contractAddress": "0xerr", "tokenBalance": nil, "error": "execution reverted"},
				{"contractAddress": "", "tokenBalance": "0x01"},
			},
		}, nil
	})

	got, err := newTestClient(t, srv).GetTokenBalances(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 5)

	want := map[string]string{
		"0xusdc":   "500000000",
		"0xempty":  "0",
		"0xbroken": "0",
		"0xnull":   "0",
		"0xerr":    "0",
	}
	for _, tb := range got {
		require.NotNil(t, tb.Balance, tb.Contract)
		assert.Equal(t, want[tb.Contract], tb.Balance.String(), tb.Contract)
	}
	assert.Equal(t, "0xusdc", got[0].Contract)
}

func TestClient_GetTokenMetadata(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, methodTokenMetadata, method)
		if !assert.Len(t, params, 1) {
			return nil, errInvalidParams
		}

		switch decodeParam[string](t, params[0]) {
		case "0xusdc":
			return map[string]any{"symbol": "USDC", "name": "USD Coin", "decimals": 6, "logo": nil}, nil
		default:
			return map[string]any{"symbol": nil, "name": nil, "decimals": nil, "logo": nil}, nil
		}
	})
	c := newTestClient(t, srv)

	meta, err := c.GetTokenMetadata(context.Background(), "0xusdc")
	require.NoError(t, err)
	assert.Equal(t, "USDC", meta.Symbol)
	assert.Equal(t, "USD Coin", meta.Name)
	require.NotNil(t, meta.Decimals)
	assert.Equal(t, 6, *meta.Decimals)
	assert.Empty(t, meta.Logo)

	meta, err = c.GetTokenMetadata(context.Background(), "0xunknown")
	require.NoError(t, err)
	assert.Empty(t, meta.Symbol)
	assert.Empty(t, meta.Name)
	assert.Nil(t, meta.Decimals)
}

func TestClient_GetAssetTransfers(t *testing.T) {
	owner := "0x00000000000000000000000000000000000000aa"

	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, methodAssetTransfers, method)
		if !assert.Len(t, params, 1) {
			return nil, errInvalidParams
		}

		req := decodeParam[map[string]any](t, params[0])
		assert.Equal(t, owner, req["fromAddress"])
		assert.NotContains(t, req, "toAddress")
		assert.Equal(t, []any{"external"}, req["category"])
		assert.Equal(t, "0x19", req["maxCount"])
		assert.Equal(t, "desc", req["order"])
		assert.Equal(t, true, req["withMetadata"])
		assert.Equal(t, "0x0", req["fromBlock"])
		assert.Equal(t, "latest", req["toBlock"])

		return map[string]any{
			"transfers": []map[string]any{
				{
					"blockNum": "0x10",
					"hash":     "0xaaa",
					"from":     owner,
					"to":       "0xbob",
					"value":    0.5,
					"asset":    "ETH",
					"category": "external",
					"metadata": map[string]any{"blockTimestamp": "2023-11-14T22:13:20.000Z"},
				},
				{
					"blockNum": "garbage",
					"hash":     "0xbbb",
					"from":     owner,
					"to":       nil,
					"value":    nil,
					"asset":    nil,
					"category": "external",
				},
			},
		}, nil
	})

	got, err := newTestClient(t, srv).GetAssetTransfers(context.Background(), AssetTransfersParams{
		FromAddress:  owner,
		Categories:   []Category{CategoryExternal},
		MaxCount:     25,
		Order:        OrderDescending,
		WithMetadata: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, AssetTransfer{
		Hash:        "0xaaa",
		From:        owner,
		To:          "0xbob",
		Value:       "0.5",
		Asset:       "ETH",
		BlockNumber: 16,
		Timestamp:   1700000000,
	}, got[0])

	assert.Equal(t, AssetTransfer{
		Hash:  "0xbbb",
		From:  owner,
		Value: "0",
	}, got[1])
}

func TestClient_RPCErrorIsReturned(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32600, Message: "invalid api key"}
	})

	_, err := newTestClient(t, srv).GetTokenBalances(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClient_NativeBalance(t *testing.T) {
	owner := "0x00000000000000000000000000000000000000aa"

	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, methodGetBalance, method)
		if !assert.Len(t, params, 2) {
			return nil, errInvalidParams
		}
		assert.Equal(t, owner, decodeParam[string](t, params[0]))
		assert.Equal(t, "latest", decodeParam[string](t, params[1]))
		return "0xde0b6b3a7640000", nil
	})

	bal, err := newTestClient(t, srv).NativeBalance(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

func TestClient_Cancelled(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, method string, params []json.RawMessage) (any, *rpcError) {
		return map[string]any{"tokenBalances": []any{}}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv).GetTokenBalances(ctx, "0xabc")
	require.Error(t, err)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t,
		"https://eth-sepolia.g.alchemy.com/v2/key123",
		Endpoint(DefaultEndpointTemplate, "eth-sepolia", "key123"))
	assert.Equal(t, "http://localhost/rpc", Endpoint("http://localhost/rpc", "eth-mainnet", "k"))
}
