package indexer

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TokenBalance is a validated entry from the bulk token-balance lookup.
// Balance is never nil; unparsable wire values are reported as zero.
type TokenBalance struct {
	Contract string
	Balance  *big.Int
}

// TokenMetadata is the metadata the indexer knows about an ERC-20 contract.
// Decimals is nil when the indexer did not report it.
type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals *int
	Logo     string
}

// AssetTransfer is a validated native-asset transfer.
// BlockNumber and Timestamp are zero when the wire value was absent or malformed.
type AssetTransfer struct {
	Hash        string
	From        string
	To          string
	Value       string
	Asset       string
	BlockNumber uint64
	Timestamp   int64
}

// Category filters asset transfers by kind.
type Category string

const CategoryExternal Category = "external"

// Order is the sort order of asset transfer results.
type Order string

const OrderDescending Order = "desc"

// AssetTransfersParams selects transfers by sender or recipient.
type AssetTransfersParams struct {
	FromAddress  string
	ToAddress    string
	Categories   []Category
	MaxCount     uint64
	Order        Order
	WithMetadata bool
}

func (p AssetTransfersParams) wire() assetTransfersRequest {
	req := assetTransfersRequest{
		FromBlock:    "0x0",
		ToBlock:      "latest",
		FromAddress:  p.FromAddress,
		ToAddress:    p.ToAddress,
		Category:     p.Categories,
		Order:        p.Order,
		WithMetadata: p.WithMetadata,
	}
	if p.MaxCount > 0 {
		n := hexutil.Uint64(p.MaxCount)
		req.MaxCount = &n
	}
	return req
}

// Wire shapes of the indexing API. They are decoded leniently and converted
// into the validated records above before leaving this package.

type assetTransfersRequest struct {
	FromBlock    string          `json:"fromBlock"`
	ToBlock      string          `json:"toBlock"`
	FromAddress  string          `json:"fromAddress,omitempty"`
	ToAddress    string          `json:"toAddress,omitempty"`
	Category     []Category      `json:"category"`
	MaxCount     *hexutil.Uint64 `json:"maxCount,omitempty"`
	Order        Order           `json:"order,omitempty"`
	WithMetadata bool            `json:"withMetadata"`
}

type tokenBalancesResponse struct {
	Address       string            `json:"address"`
	TokenBalances []rawTokenBalance `json:"tokenBalances"`
}

type rawTokenBalance struct {
	ContractAddress string  `json:"contractAddress"`
	TokenBalance    *string `json:"tokenBalance"`
	Error           *string `json:"error"`
}

type rawTokenMetadata struct {
	Decimals json.RawMessage `json:"decimals"`
	Logo     *string         `json:"logo"`
	Name     *string         `json:"name"`
	Symbol   *string         `json:"symbol"`
}

type assetTransfersResponse struct {
	Transfers []rawAssetTransfer `json:"transfers"`
}

type rawAssetTransfer struct {
	BlockNum string               `json:"blockNum"`
	Hash     string               `json:"hash"`
	From     string               `json:"from"`
	To       *string              `json:"to"`
	Value    json.RawMessage      `json:"value"`
	Asset    *string              `json:"asset"`
	Metadata *rawTransferMetadata `json:"metadata"`
}

type rawTransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

func (r rawTokenBalance) validate() TokenBalance {
	tb := TokenBalance{Contract: r.ContractAddress, Balance: new(big.Int)}
	if r.TokenBalance != nil && r.Error == nil {
		tb.Balance = ParseHexBalance(*r.TokenBalance)
	}
	return tb
}

func (r rawTokenMetadata) validate() TokenMetadata {
	return TokenMetadata{
		Symbol:   deref(r.Symbol),
		Name:     deref(r.Name),
		Decimals: parseDecimals(r.Decimals),
		Logo:     deref(r.Logo),
	}
}

func (r rawAssetTransfer) validate() AssetTransfer {
	t := AssetTransfer{
		Hash:        r.Hash,
		From:        r.From,
		To:          deref(r.To),
		Value:       parseValue(r.Value),
		Asset:       deref(r.Asset),
		BlockNumber: ParseHexUint64(r.BlockNum),
	}
	if r.Metadata != nil {
		t.Timestamp = ParseTimestamp(r.Metadata.BlockTimestamp)
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
