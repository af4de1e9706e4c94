package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/nekoweb3/alphabot/internal/coingecko"
	"github.com/nekoweb3/alphabot/internal/dexscreener"
	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/pumpfun"
)

// FromDexPair maps a DexScreener pair. The pair address is the identity because
// DexScreener deep links are keyed by it.
func FromDexPair(pair dexscreener.Pair) Partial {
	p := Partial{
		Address:   str(pair.PairAddress),
		Chain:     str(pair.ChainID),
		MarketCap: pair.FDV.Ptr(),
		CreatedAt: millis(pair.PairCreatedAt.Ptr()),
		Source:    models.SourceDexScreener,
	}

	if pair.BaseToken != nil {
		p.Name = str(pair.BaseToken.Name)
		p.Symbol = str(pair.BaseToken.Symbol)
	}
	if p.MarketCap == nil {
		p.MarketCap = pair.MarketCap.Ptr()
	}
	if pair.Liquidity != nil {
		p.Liquidity = pair.Liquidity.USD.Ptr()
	}
	if pair.Volume != nil {
		p.Volume24h = pair.Volume.H24.Ptr()
	}

	if pair.Info != nil {
		for _, w := range pair.Info.Websites {
			if p.Website = str(w.URL); p.Website != nil {
				break
			}
		}
		for _, s := range pair.Info.Socials {
			switch strings.ToLower(s.Kind()) {
			case "telegram":
				if p.Telegram == nil {
					p.Telegram = str(s.Link())
				}
			case "twitter", "x":
				if p.Twitter == nil {
					p.Twitter = str(s.Link())
				}
			}
		}
	}

	return p
}

// FromPumpCoin maps a pump.fun coin, identified by its mint.
func FromPumpCoin(coin pumpfun.Coin) Partial {
	chain := "solana"
	return Partial{
		Name:      str(coin.Name),
		Symbol:    str(coin.Symbol),
		Address:   str(coin.Mint),
		Chain:     &chain,
		MarketCap: coin.USDMarketCap.Ptr(),
		CreatedAt: millis(coin.CreatedTimestamp.Ptr()),
		Website:   str(coin.Website),
		Telegram:  str(coin.Telegram),
		Twitter:   str(coin.Twitter),
		Source:    models.SourcePumpFun,
	}
}

// FromTrendingCoin maps a CoinGecko trending coin, identified by its CoinGecko id.
// CoinGecko coins span chains, so the chain is "multi".
func FromTrendingCoin(coin coingecko.TrendingCoin) Partial {
	chain := MultiChain
	p := Partial{
		Name:        str(coin.Name),
		Symbol:      str(strings.ToUpper(coin.Symbol)),
		Address:     str(coin.ID),
		Chain:       &chain,
		Source:      models.SourceCoinGecko,
		CoinGeckoID: coin.ID,
	}
	if p.Address == nil && coin.CoinID.Valid {
		p.Address = str(strconv.FormatInt(int64(coin.CoinID.Value), 10))
	}
	if coin.Data != nil {
		p.MarketCap = coin.Data.MarketCap.Ptr()
		p.Volume24h = coin.Data.TotalVolume.Ptr()
	}
	return p
}

// DexPairs normalizes a batch of pairs, dropping records without an address.
func DexPairs(pairs []dexscreener.Pair, now time.Time) []models.Project {
	out := make([]models.Project, 0, len(pairs))
	for _, pair := range pairs {
		if project := Extract(FromDexPair(pair), now); project.Address != "" {
			out = append(out, project)
		}
	}
	return out
}

// PumpCoins normalizes a batch of pump.fun coins, dropping records without a mint.
func PumpCoins(coins []pumpfun.Coin, now time.Time) []models.Project {
	out := make([]models.Project, 0, len(coins))
	for _, coin := range coins {
		if project := Extract(FromPumpCoin(coin), now); project.Address != "" {
			out = append(out, project)
		}
	}
	return out
}

// TrendingCoins normalizes a batch of CoinGecko trending coins.
func TrendingCoins(coins []coingecko.TrendingCoin, now time.Time) []models.Project {
	out := make([]models.Project, 0, len(coins))
	for _, coin := range coins {
		if project := Extract(FromTrendingCoin(coin), now); project.Address != "" {
			out = append(out, project)
		}
	}
	return out
}
