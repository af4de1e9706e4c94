package scoring

import "github.com/nekoweb3/alphabot/internal/models"

// MaxModerator is the best possible moderator score.
const MaxModerator = 10

// Moderator rates 0-10 how promising a project is for early community-moderation
// outreach: young, reachable on Telegram, still small and low risk.
func Moderator(p models.Project) int {
	score := 0
	if !p.AgeUnknown && p.PairAgeHours < 12 {
		score += 3
	}
	if p.Telegram != "" {
		score += 2
	}
	if p.Liquidity < 40_000 {
		score += 2
	}
	if p.RiskScore == models.RiskLow {
		score += 3
	}
	return score
}
