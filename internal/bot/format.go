package bot

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/scoring"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxMessageLength is the longest reply sent, marker included.
const MaxMessageLength = 3900

// TruncationMarker ends every truncated reply.
const TruncationMarker = "\n\n✂️ _(truncated)_"

const divider = "━━━━━━━━━━━━━━"

var printer = message.NewPrinter(language.English)

// Truncate cuts s to MaxMessageLength characters, ending it with TruncationMarker.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageLength {
		return s
	}
	keep := MaxMessageLength - utf8.RuneCountInString(TruncationMarker)
	runes := []rune(s)
	return string(runes[:keep]) + TruncationMarker
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape neutralizes Markdown control characters in provider-supplied text.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// usd renders a whole-dollar amount with thousands separators.
func usd(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprintf("$%d", int64(math.Floor(v)))
}

// price renders a quote. Sub-dollar prices keep up to eight significant decimals.
func price(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0) || v <= 0:
		return "$0"
	case v >= 1:
		return printer.Sprintf("$%.2f", v)
	default:
		return "$" + decimal.NewFromFloat(v).Round(8).String()
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func riskEmoji(tier models.RiskTier) string {
	switch tier {
	case models.RiskLow:
		return "🟢"
	case models.RiskMedium:
		return "🟡"
	case models.RiskHigh:
		return "🔴"
	default:
		return "⚪"
	}
}

func ageLine(p models.Project) string {
	if p.AgeUnknown {
		return "⏱️ " + models.AgeLabel(0, true)
	}
	return fmt.Sprintf("⏱️ %dh · %s", int(p.PairAgeHours), models.AgeLabel(p.PairAgeHours, false))
}

// projectCard renders one listing entry.
func projectCard(p models.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "🦁 *%s* ($%s)\n", escape(p.Name), escape(p.Symbol))
	fmt.Fprintf(&b, "⛓️ %s | %s\n", strings.ToUpper(p.Chain), strings.ToUpper(string(p.Category)))
	b.WriteString(ageLine(p) + "\n")
	fmt.Fprintf(&b, "🧠 *AlphaScore:* %d/100\n", scoring.Alpha(p))
	fmt.Fprintf(&b, "%s Risk: %s", riskEmoji(p.RiskScore), p.RiskScore)
	if len(p.RiskReasons) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(p.RiskReasons, ", "))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "💧 Liquidity: %s\n", usd(p.Liquidity))
	fmt.Fprintf(&b, "📊 Volume: %s\n", usd(p.Volume24h))
	if p.MarketCap > 0 {
		fmt.Fprintf(&b, "🏦 MCap: %s\n", usd(p.MarketCap))
	}
	fmt.Fprintf(&b, "🕒 Added %s\n", models.TimeAgo(p.CreatedAt, now))
	fmt.Fprintf(&b, "🔗 [%s](%s)", p.LinkLabel(), p.Link())
	if p.Telegram != "" {
		fmt.Fprintf(&b, " | [Telegram](%s)", p.Telegram)
	}
	if p.Twitter != "" {
		fmt.Fprintf(&b, " | [X](%s)", p.Twitter)
	}
	return b.String()
}

// listing renders a titled page of project cards.
func listing(title string, page int, projects []models.Project, now time.Time) string {
	cards := make([]string, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, projectCard(p, now))
	}
	return fmt.Sprintf("%s | Page %d\n\n%s", title, page, strings.Join(cards, "\n\n"))
}

func moderatorCard(p models.Project) string {
	age := fmt.Sprintf("%dh old", int(p.PairAgeHours))
	if p.AgeUnknown {
		age = "age unknown"
	}
	return fmt.Sprintf("🎯 *%s*\n⏱️ %s\n⭐ *Mod Score:* %d/%d\n📣 %s\n\n_Smart DM:_\n"+
		"Hi team 👋 I've been tracking %s since launch and noticed strong early traction. "+
		"I'd love to help moderate & grow the community.",
		escape(p.Name), age, scoring.Moderator(p), scoring.MaxModerator, p.Telegram, escape(p.Name))
}

func topLine(rank int, r scoring.Ranked) string {
	p := r.Project
	return fmt.Sprintf("%d. *%s* ($%s) · %d/100\n   ⛓️ %s | %s %s | 💧 %s\n   🔗 [%s](%s)",
		rank, escape(p.Name), escape(p.Symbol), r.Alpha,
		strings.ToUpper(p.Chain), riskEmoji(p.RiskScore), p.RiskScore, usd(p.Liquidity),
		p.LinkLabel(), p.Link())
}
