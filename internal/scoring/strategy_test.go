package scoring

import (
	"testing"
	"time"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPhase(t *testing.T) {
	tests := []struct {
		name   string
		counts MarketCounts
		want   Phase
	}{
		{"early launch", MarketCounts{Fresh: 10, LowRisk: 5, Memes: 99}, PhaseEarlyLaunch},
		{"high risk overrides early launch", MarketCounts{Fresh: 10, LowRisk: 1}, PhaseHighRisk},
		{"low activity", MarketCounts{Fresh: 2, LowRisk: 3}, PhaseLowActivity},
		{"high risk overrides low activity", MarketCounts{Fresh: 0, LowRisk: 0}, PhaseHighRisk},
		{"balanced", MarketCounts{Fresh: 5, LowRisk: 3}, PhaseBalanced},
		{"boundaries are strict", MarketCounts{Fresh: 8, LowRisk: 3}, PhaseBalanced},
		{"three fresh is not low activity", MarketCounts{Fresh: 3, LowRisk: 10}, PhaseBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPhase(tt.counts))
		})
	}
}

func TestStrategyReport(t *testing.T) {
	report := StrategyReport(MarketCounts{Fresh: 10, LowRisk: 5, Memes: 4})

	assert.Contains(t, report, "• Fresh pairs (<6h): 10")
	assert.Contains(t, report, "• Low-risk projects: 5")
	assert.Contains(t, report, "• Meme dominance: 4")
	assert.Contains(t, report, "→ *EARLY LAUNCH META 🚀*")
	for _, line := range Recommendations {
		assert.Contains(t, report, line)
	}

	zero := StrategyReport(MarketCounts{})
	assert.Contains(t, zero, "→ *HIGH RISK ⚠️*")
}

func TestTop(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{Address: "low", RiskScore: models.RiskMedium, PairAgeHours: 100, CreatedAt: t0},
		{Address: "best", RiskScore: models.RiskLow, Liquidity: 200000, PairAgeHours: 0.5, CreatedAt: t0},
		{Address: "tie-b", RiskScore: models.RiskLow, PairAgeHours: 100, CreatedAt: t0},
		{Address: "tie-a", RiskScore: models.RiskLow, PairAgeHours: 100, CreatedAt: t0},
		{Address: "tie-newer", RiskScore: models.RiskLow, PairAgeHours: 100, CreatedAt: t0.Add(time.Hour)},
		{Address: "risky", RiskScore: models.RiskHigh, Liquidity: 1e9, CreatedAt: t0},
	}

	top := Top(projects, 5)
	require.Len(t, top, 5)

	var order []string
	for _, r := range top {
		order = append(order, r.Project.Address)
	}
	assert.Equal(t, []string{"best", "tie-newer", "tie-a", "tie-b", "low"}, order)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Alpha, top[i].Alpha)
	}

	assert.Len(t, Top(projects, 100), len(projects))
	assert.Empty(t, Top(projects, 0))
}
