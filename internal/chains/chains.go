// Package chains is static chain metadata: id to name, native symbol, and
// block explorer URL. Configuration data, not logic.
package chains

import "fmt"

// DefaultChainID is the fallback chain when no wallet connection supplies one
// (Base mainnet).
const DefaultChainID = 8453

// Chain describes one supported network.
type Chain struct {
	ID       int
	Name     string
	Symbol   string
	Explorer string
}

var registry = map[int]Chain{
	1:        {ID: 1, Name: "Ethereum", Symbol: "ETH", Explorer: "https://etherscan.io"},
	10:       {ID: 10, Name: "Optimism", Symbol: "ETH", Explorer: "https://optimistic.etherscan.io"},
	56:       {ID: 56, Name: "BNB Smart Chain", Symbol: "BNB", Explorer: "https://bscscan.com"},
	137:      {ID: 137, Name: "Polygon", Symbol: "POL", Explorer: "https://polygonscan.com"},
	8453:     {ID: 8453, Name: "Base", Symbol: "ETH", Explorer: "https://basescan.org"},
	42161:    {ID: 42161, Name: "Arbitrum One", Symbol: "ETH", Explorer: "https://arbiscan.io"},
	43114:    {ID: 43114, Name: "Avalanche", Symbol: "AVAX", Explorer: "https://snowtrace.io"},
	59144:    {ID: 59144, Name: "Linea", Symbol: "ETH", Explorer: "https://lineascan.build"},
	534352:   {ID: 534352, Name: "Scroll", Symbol: "ETH", Explorer: "https://scrollscan.com"},
	84532:    {ID: 84532, Name: "Base Sepolia", Symbol: "ETH", Explorer: "https://sepolia.basescan.org"},
	11155111: {ID: 11155111, Name: "Sepolia", Symbol: "ETH", Explorer: "https://sepolia.etherscan.io"},
}

// ByID looks up chain metadata; ok is false for unknown ids.
func ByID(id int) (Chain, bool) {
	c, ok := registry[id]
	return c, ok
}

// Name returns the chain's display name, or "chain <id>" for unknown ids.
func Name(id int) string {
	if c, ok := registry[id]; ok {
		return c.Name
	}
	return fmt.Sprintf("chain %d", id)
}

// Symbol returns the native currency symbol, or "ETH" for unknown ids.
func Symbol(id int) string {
	if c, ok := registry[id]; ok {
		return c.Symbol
	}
	return "ETH"
}

// TxURL returns the explorer URL for a transaction hash, empty for unknown
// chains.
func TxURL(id int, hash string) string {
	c, ok := registry[id]
	if !ok || hash == "" {
		return ""
	}
	return c.Explorer + "/tx/" + hash
}

// AddressURL returns the explorer URL for an address, empty for unknown
// chains.
func AddressURL(id int, address string) string {
	c, ok := registry[id]
	if !ok || address == "" {
		return ""
	}
	return c.Explorer + "/address/" + address
}
