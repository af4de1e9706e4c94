package pumpfun

import "github.com/nekoweb3/alphabot/internal/upstream"

// Coin is a pump.fun bonding-curve token. Every field may be absent.
type Coin struct {
	Mint             string          `json:"mint"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	Description      string          `json:"description"`
	USDMarketCap     upstream.Number `json:"usd_market_cap"`
	CreatedTimestamp upstream.Number `json:"created_timestamp"` // unix millis
	Twitter          string          `json:"twitter"`
	Telegram         string          `json:"telegram"`
	Website          string          `json:"website"`
	Complete         bool            `json:"complete"`
}
