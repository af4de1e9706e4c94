package dexscreener

import (
	"encoding/json"

	"github.com/nekoweb3/alphabot/internal/upstream"
)

type searchResponse struct {
	SchemaVersion string            `json:"schemaVersion"`
	Pairs         []json.RawMessage `json:"pairs"`
}

// Pair is a trading pair as returned by the search endpoint. Every field may be absent.
type Pair struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	URL           string          `json:"url"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     *Token          `json:"baseToken"`
	QuoteToken    *Token          `json:"quoteToken"`
	PriceUSD      upstream.Number `json:"priceUsd"`
	Liquidity     *Liquidity      `json:"liquidity"`
	Volume        *Volume         `json:"volume"`
	FDV           upstream.Number `json:"fdv"`
	MarketCap     upstream.Number `json:"marketCap"`
	PairCreatedAt upstream.Number `json:"pairCreatedAt"` // unix millis
	Info          *Info           `json:"info"`
}

// Token is one side of a pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity of the pair.
type Liquidity struct {
	USD   upstream.Number `json:"usd"`
	Base  upstream.Number `json:"base"`
	Quote upstream.Number `json:"quote"`
}

// Volume traded over rolling windows.
type Volume struct {
	M5  upstream.Number `json:"m5"`
	H1  upstream.Number `json:"h1"`
	H6  upstream.Number `json:"h6"`
	H24 upstream.Number `json:"h24"`
}

// Info carries project links.
type Info struct {
	ImageURL string    `json:"imageUrl"`
	Websites []Website `json:"websites"`
	Socials  []Social  `json:"socials"`
}

// Website link.
type Website struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Social link. Older payloads use type/url, newer ones platform/handle.
type Social struct {
	Type     string `json:"type"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Handle   string `json:"handle"`
}

// Kind returns the social network name regardless of payload generation.
func (s Social) Kind() string {
	if s.Type != "" {
		return s.Type
	}
	return s.Platform
}

// Link returns the social URL, falling back to the handle.
func (s Social) Link() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Handle
}
