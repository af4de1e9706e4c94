package scoring

import (
	"fmt"
	"strings"
)

// Phase is the qualitative market label derived from listing activity.
type Phase string

const (
	PhaseBalanced    Phase = "BALANCED"
	PhaseEarlyLaunch Phase = "EARLY LAUNCH META"
	PhaseLowActivity Phase = "LOW ACTIVITY"
	PhaseHighRisk    Phase = "HIGH RISK"
)

// FreshAgeHours is the age under which a pair counts as fresh.
const FreshAgeHours = 6

// MarketCounts are the aggregates the strategy engine works from.
type MarketCounts struct {
	Fresh   int64 // pairs younger than FreshAgeHours
	LowRisk int64
	Memes   int64
}

// Recommendations are appended to every strategy report.
var Recommendations = []string{
	"1️⃣ AlphaScore ≥ 70 only",
	"2️⃣ Liquidity > $20k",
	"3️⃣ Observe Telegram ≥ 10 mins",
	"4️⃣ Never buy first candle",
}

// ClassifyPhase applies the phase rules in order; a later matching rule overrides an
// earlier one, so a shortage of low-risk projects always reads HIGH RISK.
func ClassifyPhase(c MarketCounts) Phase {
	phase := PhaseBalanced
	if c.Fresh > 8 {
		phase = PhaseEarlyLaunch
	}
	if c.Fresh < 3 {
		phase = PhaseLowActivity
	}
	if c.LowRisk < 3 {
		phase = PhaseHighRisk
	}
	return phase
}

func (p Phase) emoji() string {
	switch p {
	case PhaseEarlyLaunch:
		return " 🚀"
	case PhaseLowActivity:
		return " 🛑"
	case PhaseHighRisk:
		return " ⚠️"
	default:
		return ""
	}
}

// StrategyReport renders the fixed strategy template.
func StrategyReport(c MarketCounts) string {
	phase := ClassifyPhase(c)

	var b strings.Builder
	b.WriteString("🧠 *Neko AI Market Brain*\n\n")
	b.WriteString("📊 *Live Signals*\n")
	fmt.Fprintf(&b, "• Fresh pairs (<%dh): %d\n", FreshAgeHours, c.Fresh)
	fmt.Fprintf(&b, "• Low-risk projects: %d\n", c.LowRisk)
	fmt.Fprintf(&b, "• Meme dominance: %d\n\n", c.Memes)
	b.WriteString("🧭 *Market Phase*\n")
	fmt.Fprintf(&b, "→ *%s%s*\n\n", phase, phase.emoji())
	b.WriteString("🎯 *AI Recommendations*\n")
	b.WriteString(strings.Join(Recommendations, "\n"))
	b.WriteString("\n\n_Pattern-based logic, not financial advice_")
	return b.String()
}
