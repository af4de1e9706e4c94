package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/scoring"
	"github.com/nekoweb3/alphabot/internal/storage"
	"github.com/nekoweb3/alphabot/internal/upstream"
)

// Command limits and canned replies.
const (
	DefaultChainQuery = "eth"
	DefaultTopN       = 5
	MaxTopN           = 10

	SearchLimit    = 5
	ModeratorPicks = 3

	NoMoreProjects   = "❌ No more projects."
	ProviderDown     = "⚠️ Data provider unavailable, try again later."
	NoModeratorPicks = "No early mod opportunities right now."
	AlertStub        = "🔔 Alerts are coming soon. Use /newprojects and /top meanwhile."
)

const startText = "🐱‍👤 *NekoWeb3PJ*\n\nPrivate AI-powered Web3 discovery bot\nStatus: *ONLINE* 🚀"

const helpText = "🤖 *Commands*\n\n" +
	"/newprojects [eth|sol|bnb|base] · latest listings\n" +
	"/chain eth|sol|bnb|base · listings on one chain\n" +
	"/category meme|defi|gaming|utility · listings by category\n" +
	"/top [n] · best AlphaScores (max 10)\n" +
	"/search <name> · find a project\n" +
	"/price <coingecko-id> · spot price\n" +
	"/trending · CoinGecko trending\n" +
	"/refresh · pull fresh listings\n" +
	"/stats · database stats\n" +
	"/moderator · early mod opportunities\n" +
	"/strategy · market phase\n" +
	"/insight <name> · AI brief\n" +
	"/alert · coming soon"

func (d *Dispatcher) start(context.Context, Message, []string) (string, error) {
	return startText, nil
}

func (d *Dispatcher) help(context.Context, Message, []string) (string, error) {
	return helpText, nil
}

func (d *Dispatcher) alert(context.Context, Message, []string) (string, error) {
	return AlertStub, nil
}

// newProjects lists the newest projects, optionally on one chain. The first page pulls
// fresh pairs from DexScreener before reading.
func (d *Dispatcher) newProjects(ctx context.Context, msg Message, args []string) (string, error) {
	query := DefaultChainQuery
	filter := storage.Filter{}
	view := "new"
	if len(args) > 0 {
		query = args[0]
		filter.Chain = models.ResolveChain(query)
		view = "new:" + filter.Chain
	}

	pageNo, projects, err := d.page(ctx, msg, view, filter, func(ctx context.Context) {
		if d.deps.Ingester != nil {
			d.deps.Ingester.IngestChain(ctx, query)
		}
	})
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return NoMoreProjects, nil
	}
	return listing("📡 *Latest Projects*", pageNo, projects, d.now()), nil
}

func (d *Dispatcher) chain(ctx context.Context, msg Message, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: /chain eth|sol|bnb|base", nil
	}
	chain := models.ResolveChain(args[0])

	pageNo, projects, err := d.page(ctx, msg, "chain:"+chain, storage.Filter{Chain: chain}, nil)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return NoMoreProjects, nil
	}
	return listing(fmt.Sprintf("⛓️ *%s Projects*", strings.ToUpper(escape(chain))), pageNo, projects, d.now()), nil
}

func (d *Dispatcher) category(ctx context.Context, msg Message, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: /category meme|defi|gaming|utility", nil
	}
	category, ok := models.ParseCategory(args[0])
	if !ok {
		return "Unknown category. Use one of: meme, defi, gaming, utility", nil
	}

	pageNo, projects, err := d.page(ctx, msg, "category:"+string(category), storage.Filter{Category: category}, nil)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return NoMoreProjects, nil
	}
	return listing(fmt.Sprintf("🏷️ *%s Projects*", strings.ToUpper(string(category))), pageNo, projects, d.now()), nil
}

func (d *Dispatcher) top(ctx context.Context, _ Message, args []string) (string, error) {
	n := DefaultTopN
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil {
			n = parsed
		}
	}
	n = max(1, min(n, MaxTopN))

	store, err := d.store()
	if err != nil {
		return "", err
	}
	// Scores are frozen at first sighting, so older records compete too.
	candidates, err := store.Find(ctx, storage.Filter{ExcludeRisk: models.RiskHigh}, storage.FindOptions{Sort: storage.SortNewest})
	if err != nil {
		return "", fmt.Errorf("find top candidates: %w", err)
	}

	ranked := scoring.Top(candidates, n)
	if len(ranked) == 0 {
		return "No projects yet. Try /refresh.", nil
	}

	lines := make([]string, 0, len(ranked))
	for i, r := range ranked {
		lines = append(lines, topLine(i+1, r))
	}
	return fmt.Sprintf("🏆 *Top %d by AlphaScore*\n\n%s", len(ranked), strings.Join(lines, "\n\n")), nil
}

func (d *Dispatcher) search(ctx context.Context, _ Message, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: /search <name>", nil
	}
	query := strings.Join(args, " ")

	store, err := d.store()
	if err != nil {
		return "", err
	}
	projects, err := store.Find(ctx, storage.Filter{NameContains: query}, storage.FindOptions{
		Sort:  storage.SortNewest,
		Limit: SearchLimit,
	})
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	if len(projects) == 0 {
		return fmt.Sprintf("🔍 No projects matching \"%s\".", escape(query)), nil
	}

	cards := make([]string, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, projectCard(p, d.now()))
	}
	return fmt.Sprintf("🔍 *Results for \"%s\"*\n\n%s", escape(query), strings.Join(cards, "\n\n")), nil
}

func (d *Dispatcher) price(ctx context.Context, _ Message, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: /price <coingecko-id>, e.g. /price bitcoin", nil
	}
	if d.deps.Prices == nil {
		return ProviderDown, nil
	}
	id := strings.ToLower(args[0])

	res := d.deps.Prices.Price(ctx, id)
	switch res.Status() {
	case upstream.StatusFailed:
		zlog(ctx).Warn().Err(res.Err).Str("id", id).Msg("Price lookup failed")
		return ProviderDown, nil
	case upstream.StatusEmpty:
		return fmt.Sprintf("❌ Unknown coin: %s", escape(id)), nil
	}

	q, _ := res.First()
	var b strings.Builder
	fmt.Fprintf(&b, "💰 *%s*\n\n", strings.ToUpper(escape(id)))
	fmt.Fprintf(&b, "Price: %s\n", price(q.USD.Value))
	if q.Change24h.Valid {
		fmt.Fprintf(&b, "24h: %s\n", percent(q.Change24h.Value))
	}
	if q.MarketCap.Valid && q.MarketCap.Value > 0 {
		fmt.Fprintf(&b, "Market cap: %s\n", usd(q.MarketCap.Value))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) trending(ctx context.Context, _ Message, _ []string) (string, error) {
	if d.deps.Trending == nil {
		return ProviderDown, nil
	}

	res := d.deps.Trending.Trending(ctx)
	switch res.Status() {
	case upstream.StatusFailed:
		zlog(ctx).Warn().Err(res.Err).Msg("Trending lookup failed")
		return ProviderDown, nil
	case upstream.StatusEmpty:
		return "No trending coins right now.", nil
	}

	lines := make([]string, 0, len(res.Items))
	for i, c := range res.Items {
		line := fmt.Sprintf("%d. *%s* (%s)", i+1, escape(c.Name), escape(strings.ToUpper(c.Symbol)))
		if c.MarketCapRank.Valid {
			line += fmt.Sprintf(" · #%d", int(c.MarketCapRank.Value))
		}
		if c.Data != nil {
			if ch := c.Data.Change24hUSD(); ch.Valid {
				line += " · " + percent(ch.Value)
			}
		}
		lines = append(lines, line)
	}
	return "🔥 *Trending on CoinGecko*\n\n" + strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) refresh(ctx context.Context, _ Message, _ []string) (string, error) {
	if d.deps.Ingester == nil {
		return ProviderDown, nil
	}

	var b strings.Builder
	b.WriteString("🔄 *Refresh complete*\n\n")
	total := 0
	for _, chain := range d.deps.Ingester.Chains() {
		sum := d.deps.Ingester.IngestChain(ctx, chain)
		total += sum.Inserted
		switch sum.Status {
		case upstream.StatusFailed:
			fmt.Fprintf(&b, "• %s: ⚠️ unavailable\n", escape(chain))
		default:
			fmt.Fprintf(&b, "• %s: %d fetched, %d new\n", escape(chain), sum.Fetched, sum.Inserted)
		}
	}
	fmt.Fprintf(&b, "\nTotal new: %d", total)
	return b.String(), nil
}

func (d *Dispatcher) stats(ctx context.Context, _ Message, _ []string) (string, error) {
	var b strings.Builder
	b.WriteString("📊 *Database Stats*\n\n")
	fmt.Fprintf(&b, "Total projects: %d\n", d.count(ctx, storage.Filter{}))
	fmt.Fprintf(&b, "Fresh (<%dh): %d\n\n", scoring.FreshAgeHours, d.count(ctx, storage.Filter{MaxAgeHours: scoring.FreshAgeHours}))

	b.WriteString("*Risk*\n")
	for _, tier := range []models.RiskTier{models.RiskLow, models.RiskMedium, models.RiskHigh} {
		fmt.Fprintf(&b, "%s %s: %d\n", riskEmoji(tier), tier, d.count(ctx, storage.Filter{Risk: tier}))
	}

	b.WriteString("\n*Categories*\n")
	for _, c := range models.Categories {
		fmt.Fprintf(&b, "• %s: %d\n", c, d.count(ctx, storage.Filter{Category: c}))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) moderator(ctx context.Context, _ Message, _ []string) (string, error) {
	store, err := d.store()
	if err != nil {
		return "", err
	}
	projects, err := store.Find(ctx, storage.Filter{HasTelegram: true, ExcludeRisk: models.RiskHigh}, storage.FindOptions{
		Sort:  storage.SortYoungest,
		Limit: ModeratorPicks,
	})
	if err != nil {
		return "", fmt.Errorf("find moderator picks: %w", err)
	}
	if len(projects) == 0 {
		return NoModeratorPicks, nil
	}

	cards := make([]string, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, moderatorCard(p))
	}
	return strings.Join(cards, "\n\n"+divider+"\n\n"), nil
}

func (d *Dispatcher) strategy(ctx context.Context, _ Message, _ []string) (string, error) {
	return scoring.StrategyReport(d.MarketCounts(ctx)), nil
}

// MarketCounts gathers the strategy aggregates. Counts that fail read as 0.
func (d *Dispatcher) MarketCounts(ctx context.Context) scoring.MarketCounts {
	return scoring.MarketCounts{
		Fresh:   d.count(ctx, storage.Filter{MaxAgeHours: scoring.FreshAgeHours}),
		LowRisk: d.count(ctx, storage.Filter{Risk: models.RiskLow}),
		Memes:   d.count(ctx, storage.Filter{Category: models.CategoryMeme}),
	}
}

func (d *Dispatcher) insight(ctx context.Context, _ Message, args []string) (string, error) {
	if d.deps.Insights == nil {
		return "🤖 AI insights are not configured.", nil
	}
	if len(args) == 0 {
		return "Usage: /insight <name>", nil
	}
	query := strings.Join(args, " ")

	store, err := d.store()
	if err != nil {
		return "", err
	}
	projects, err := store.Find(ctx, storage.Filter{NameContains: query}, storage.FindOptions{Sort: storage.SortNewest, Limit: 1})
	if err != nil {
		return "", fmt.Errorf("find %q: %w", query, err)
	}
	if len(projects) == 0 {
		return fmt.Sprintf("🔍 No projects matching \"%s\".", escape(query)), nil
	}

	p := projects[0]
	text, err := d.deps.Insights.Insight(ctx, p)
	if err != nil {
		zlog(ctx).Warn().Err(err).Str("project", p.Name).Msg("Insight failed")
		return "⚠️ AI insight unavailable right now.", nil
	}
	return fmt.Sprintf("🤖 *AI Insight: %s*\n🧠 AlphaScore %d/100 · %s %s\n\n%s",
		escape(p.Name), scoring.Alpha(p), riskEmoji(p.RiskScore), p.RiskScore, escape(text)), nil
}
