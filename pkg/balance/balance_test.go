package balance

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNative_Display(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)

	assert.Equal(t, "1.0000", Native{Wei: oneEther}.Display())
	assert.Equal(t, "<0.0001", Native{Wei: big.NewInt(1)}.Display())
	assert.Equal(t, "0.0000", Native{}.Display())
	assert.Equal(t, "0.0000", Zero("ETH").Display())
}

func TestNative_StoresLargeBalances(t *testing.T) {
	wei, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	raw, err := json.Marshal(Native{Wei: wei, Currency: "ETH"})
	require.NoError(t, err)

	var got Native
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 0, wei.Cmp(got.Wei))
	assert.Equal(t, "ETH", got.Currency)
}
