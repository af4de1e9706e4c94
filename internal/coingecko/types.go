package coingecko

import (
	"encoding/json"

	"github.com/nekoweb3/alphabot/internal/upstream"
)

// Price is a simple USD quote.
type Price struct {
	ID        string          `json:"-"`
	USD       upstream.Number `json:"usd"`
	Change24h upstream.Number `json:"usd_24h_change"`
	MarketCap upstream.Number `json:"usd_market_cap"`
}

type trendingResponse struct {
	Coins []json.RawMessage `json:"coins"`
}

type trendingEntry struct {
	Item *TrendingCoin `json:"item"`
}

// TrendingCoin is one entry of the trending search list. Every field may be absent.
type TrendingCoin struct {
	ID            string          `json:"id"`
	CoinID        upstream.Number `json:"coin_id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	Slug          string          `json:"slug"`
	MarketCapRank upstream.Number `json:"market_cap_rank"`
	Score         upstream.Number `json:"score"`
	Data          *TrendingData   `json:"data"`
}

// TrendingData carries the market figures CoinGecko attaches to trending coins.
// Market cap and volume arrive as formatted strings such as "$1,234,567".
type TrendingData struct {
	Price       upstream.Number            `json:"price"`
	MarketCap   upstream.Number            `json:"market_cap"`
	TotalVolume upstream.Number            `json:"total_volume"`
	PriceChange map[string]upstream.Number `json:"price_change_percentage_24h"`
}

// Change24hUSD returns the 24h USD price change percentage, if present.
func (d *TrendingData) Change24hUSD() upstream.Number {
	if d == nil {
		return upstream.Number{}
	}
	return d.PriceChange["usd"]
}
