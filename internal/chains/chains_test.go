package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByID(t *testing.T) {
	c, ok := ByID(8453)
	assert.True(t, ok)
	assert.Equal(t, "Base", c.Name)
	assert.Equal(t, "ETH", c.Symbol)

	_, ok = ByID(999999)
	assert.False(t, ok)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Ethereum", Name(1))
	assert.Equal(t, "Optimism", Name(10))
	assert.Equal(t, "chain 999999", Name(999999))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "POL", Symbol(137))
	assert.Equal(t, "AVAX", Symbol(43114))
	assert.Equal(t, "ETH", Symbol(999999))
}

func TestExplorerURLs(t *testing.T) {
	assert.Equal(t, "https://basescan.org/tx/0xabc", TxURL(8453, "0xabc"))
	assert.Equal(t, "https://etherscan.io/address/0xdef", AddressURL(1, "0xdef"))

	assert.Empty(t, TxURL(999999, "0xabc"))
	assert.Empty(t, TxURL(8453, ""))
	assert.Empty(t, AddressURL(999999, "0xdef"))
	assert.Empty(t, AddressURL(8453, ""))
}
