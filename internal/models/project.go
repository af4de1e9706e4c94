package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source identifies the market-data provider a project was ingested from.
type Source string

const (
	SourceDexScreener Source = "dexscreener"
	SourceCoinGecko   Source = "coingecko"
	SourcePumpFun     Source = "pumpfun"
)

// Project is the canonical, storage-ready record of one discovered token or trading pair.
// It is written once on first sighting and never updated by the bot afterwards.
type Project struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Identity
	Name    string `bson:"name" json:"name"`
	Symbol  string `bson:"symbol" json:"symbol"`
	Address string `bson:"address" json:"address"` // unique de-duplication key
	Chain   string `bson:"chain" json:"chain"`

	// Classification
	Category Category `bson:"category" json:"category"`

	// Market data (floored to whole USD)
	Liquidity    float64 `bson:"liquidity" json:"liquidity"`
	Volume24h    float64 `bson:"volume_24h" json:"volume_24h"`
	MarketCap    float64 `bson:"market_cap" json:"market_cap"`
	PairAgeHours float64 `bson:"pair_age_hours" json:"pair_age_hours"`
	AgeUnknown   bool    `bson:"age_unknown,omitempty" json:"age_unknown,omitempty"`

	// Socials
	Website  string `bson:"website" json:"website"`
	Telegram string `bson:"telegram" json:"telegram"`
	Twitter  string `bson:"twitter" json:"twitter"`

	// Risk
	RiskScore   RiskTier `bson:"risk_score" json:"risk_score"`
	RiskReasons []string `bson:"risk_reasons" json:"risk_reasons"`

	// Provenance
	Source      Source `bson:"source" json:"source"`
	CoinGeckoID string `bson:"coingecko_id,omitempty" json:"coingecko_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasSocials reports whether both a Telegram and a Twitter link are known.
func (p *Project) HasSocials() bool {
	return p.Telegram != "" && p.Twitter != ""
}

// Link returns the provider page for the project. DexScreener links need the
// pair address, pump.fun links the mint.
func (p *Project) Link() string {
	switch p.Source {
	case SourcePumpFun:
		return "https://pump.fun/coin/" + p.Address
	case SourceCoinGecko:
		id := p.CoinGeckoID
		if id == "" {
			id = p.Address
		}
		return "https://www.coingecko.com/en/coins/" + id
	default:
		return fmt.Sprintf("https://dexscreener.com/%s/%s", strings.ToLower(p.Chain), p.Address)
	}
}

// LinkLabel is the human name of the page returned by Link.
func (p *Project) LinkLabel() string {
	switch p.Source {
	case SourcePumpFun:
		return "pump.fun"
	case SourceCoinGecko:
		return "CoinGecko"
	default:
		return "DexScreener"
	}
}

// AgeLabel buckets the pair age for display.
func AgeLabel(hours float64, unknown bool) string {
	switch {
	case unknown:
		return "❔ AGE UNKNOWN"
	case hours < 1:
		return "🆕 JUST LAUNCHED"
	case hours < 6:
		return "🔥 VERY NEW"
	case hours < 24:
		return "🟢 NEW"
	case hours < 72:
		return "🟡 RECENT"
	default:
		return "⚪ OLD"
	}
}

// TimeAgo renders how long ago t happened relative to now.
func TimeAgo(t, now time.Time) string {
	h := int(now.Sub(t).Hours())
	switch {
	case h < 1:
		return "just now"
	case h < 24:
		return fmt.Sprintf("%dh ago", h)
	default:
		return fmt.Sprintf("%dd ago", h/24)
	}
}
