// Package normalize turns heterogeneous provider payloads into canonical projects.
//
// Every provider record is first mapped to a Partial, whose nil fields mean "the
// provider did not say". Extract then applies the defaults below. Neither step fails.
package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/nekoweb3/alphabot/internal/models"
)

// Defaults applied by Extract.
const (
	DefaultName   = "Unknown"
	DefaultSymbol = "???"
	DefaultChain  = "unknown"
	MultiChain    = "multi"
)

// Partial is a project as far as a provider described it.
type Partial struct {
	Name    *string
	Symbol  *string
	Address *string
	Chain   *string

	Liquidity *float64
	Volume24h *float64
	MarketCap *float64
	CreatedAt *time.Time

	Website  *string
	Telegram *string
	Twitter  *string

	Source      models.Source
	CoinGeckoID string
}

// Extract fills the gaps of p with defaults and derives category and risk.
func Extract(p Partial, now time.Time) models.Project {
	name := stringOr(p.Name, DefaultName)
	symbol := stringOr(p.Symbol, DefaultSymbol)

	project := models.Project{
		Name:        name,
		Symbol:      symbol,
		Address:     stringOr(p.Address, ""),
		Chain:       strings.ToLower(stringOr(p.Chain, DefaultChain)),
		Category:    models.DetectCategory(stringOr(p.Name, "")),
		Liquidity:   floorNonNegative(p.Liquidity),
		Volume24h:   floorNonNegative(p.Volume24h),
		MarketCap:   floorNonNegative(p.MarketCap),
		Website:     stringOr(p.Website, ""),
		Telegram:    stringOr(p.Telegram, ""),
		Twitter:     stringOr(p.Twitter, ""),
		Source:      p.Source,
		CoinGeckoID: p.CoinGeckoID,
		CreatedAt:   now,
	}

	ageHours := models.UnknownAgeHours
	if p.CreatedAt != nil && !p.CreatedAt.IsZero() {
		ageHours = math.Max(0, now.Sub(*p.CreatedAt).Hours())
		project.PairAgeHours = math.Floor(ageHours)
	} else {
		project.AgeUnknown = true
	}

	// Missing market data has already defaulted to 0 and is judged like any other value.
	risk := models.EvaluateRisk(project.Liquidity, project.Volume24h, ageHours)
	project.RiskScore = risk.Tier
	project.RiskReasons = risk.Reasons

	return project
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	if v := strings.TrimSpace(*s); v != "" {
		return v
	}
	return def
}

func floorNonNegative(f *float64) float64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) || *f < 0 {
		return 0
	}
	return math.Floor(*f)
}

func str(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func millis(ms *float64) *time.Time {
	if ms == nil || *ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(*ms))
	return &t
}
