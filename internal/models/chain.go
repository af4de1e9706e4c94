package models

import "strings"

var chainAliases = map[string]string{
	"eth":      "ethereum",
	"ethereum": "ethereum",
	"sol":      "solana",
	"solana":   "solana",
	"bnb":      "bsc",
	"bsc":      "bsc",
	"base":     "base",
	"arb":      "arbitrum",
	"arbitrum": "arbitrum",
	"poly":     "polygon",
	"polygon":  "polygon",
}

// ResolveChain maps a user alias such as "eth" to the chain id stored on projects.
// Unknown aliases are returned lower-cased so that new chains still filter.
func ResolveChain(alias string) string {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if chain, ok := chainAliases[alias]; ok {
		return chain
	}
	return alias
}
