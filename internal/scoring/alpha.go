// Package scoring ranks projects and summarizes the market. Everything here is a pure
// function of stored fields and is recomputed on every read.
package scoring

import "github.com/nekoweb3/alphabot/internal/models"

// Alpha score bounds.
const (
	MinAlpha = 0
	MaxAlpha = 100

	// Market caps above this are treated as already inflated.
	InflatedMarketCap = 50_000_000
)

// Alpha computes the 0-100 opportunity score of a project. HIGH risk scores 0.
func Alpha(p models.Project) int {
	if p.RiskScore == models.RiskHigh {
		return MinAlpha
	}

	score := ageBonus(p) + liquidityBonus(p.Liquidity) + volumeBonus(p.Volume24h) + riskBonus(p.RiskScore)

	// Category (0-10)
	if p.Category == models.CategoryMeme || p.Category == models.CategoryDeFi {
		score += 10
	}

	// Socials (0-5)
	if p.HasSocials() {
		score += 5
	}

	if p.MarketCap > InflatedMarketCap {
		score -= 15
	}

	return clamp(score, MinAlpha, MaxAlpha)
}

// ageBonus is worth 0-25 points. Projects whose age is unknown get nothing.
func ageBonus(p models.Project) int {
	if p.AgeUnknown {
		return 0
	}
	switch {
	case p.PairAgeHours < 1:
		return 25
	case p.PairAgeHours < 6:
		return 20
	case p.PairAgeHours < 24:
		return 10
	default:
		return 0
	}
}

// liquidityBonus is worth 0-25 points.
func liquidityBonus(liquidity float64) int {
	switch {
	case liquidity > 100_000:
		return 25
	case liquidity > 30_000:
		return 15
	case liquidity > 15_000:
		return 8
	default:
		return 0
	}
}

// volumeBonus is worth 0-20 points.
func volumeBonus(volume float64) int {
	switch {
	case volume > 200_000:
		return 20
	case volume > 50_000:
		return 10
	default:
		return 0
	}
}

// riskBonus is worth 0-20 points.
func riskBonus(tier models.RiskTier) int {
	switch tier {
	case models.RiskLow:
		return 20
	case models.RiskMedium:
		return 10
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
