// Package bot turns chat commands into replies. It knows nothing about Telegram: the
// transport hands it a Message and delivers the returned Replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nekoweb3/alphabot/internal/coingecko"
	"github.com/nekoweb3/alphabot/internal/ingest"
	"github.com/nekoweb3/alphabot/internal/metrics"
	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/session"
	"github.com/nekoweb3/alphabot/internal/storage"
	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InternalError is the only failure text users ever see.
const InternalError = "⚠️ Internal error."

// Message is an incoming chat message.
type Message struct {
	ChatID   int64
	Username string
	Text     string
}

// Reply is an outgoing Markdown message.
type Reply struct {
	ChatID int64
	Text   string
}

// Refresher re-ingests listings on demand.
type Refresher interface {
	IngestChain(ctx context.Context, query string) ingest.Summary
	Chains() []string
}

// PriceLookup fetches a spot price.
type PriceLookup interface {
	Price(ctx context.Context, id string) upstream.Result[coingecko.Price]
}

// TrendingLookup fetches the trending list.
type TrendingLookup interface {
	Trending(ctx context.Context) upstream.Result[coingecko.TrendingCoin]
}

// Insighter writes a short AI brief about a project.
type Insighter interface {
	Insight(ctx context.Context, p models.Project) (string, error)
}

// Deps are the collaborators of the Dispatcher. Insights may be nil.
type Deps struct {
	Store    storage.ProjectStore
	Sessions session.Store
	Ingester Refresher
	Prices   PriceLookup
	Trending TrendingLookup
	Insights Insighter
}

// Config tunes the Dispatcher.
type Config struct {
	// AllowedUsername restricts the bot to one sender when set.
	AllowedUsername string
	// BotUsername, when set, makes "/cmd@other_bot" messages be ignored.
	BotUsername string
	PageSize    int
}

// DefaultPageSize is the number of projects per listing page.
const DefaultPageSize = 3

type handlerFunc func(ctx context.Context, msg Message, args []string) (string, error)

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	deps     Deps
	config   Config
	handlers map[string]handlerFunc
	now      func() time.Time
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(deps Deps, config Config) *Dispatcher {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	config.AllowedUsername = strings.TrimPrefix(config.AllowedUsername, "@")
	config.BotUsername = strings.TrimPrefix(config.BotUsername, "@")

	d := &Dispatcher{deps: deps, config: config, now: time.Now}
	d.handlers = map[string]handlerFunc{
		"/start":       d.start,
		"/help":        d.help,
		"/newprojects": d.newProjects,
		"/chain":       d.chain,
		"/category":    d.category,
		"/top":         d.top,
		"/search":      d.search,
		"/price":       d.price,
		"/trending":    d.trending,
		"/refresh":     d.refresh,
		"/stats":       d.stats,
		"/moderator":   d.moderator,
		"/alert":       d.alert,
		"/strategy":    d.strategy,
		"/insight":     d.insight,
	}
	return d
}

// Allowed reports whether the sender may use the bot.
func (d *Dispatcher) Allowed(username string) bool {
	return d.config.AllowedUsername == "" || strings.EqualFold(username, d.config.AllowedUsername)
}

// Handle runs one message. Unknown commands, plain text and messages from senders outside
// the allow-list produce no replies. Handler failures, panics included, become a single
// InternalError reply.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (replies []Reply) {
	command, args, ok := d.parse(msg.Text)
	if !ok {
		return nil
	}
	handler, ok := d.handlers[command]
	if !ok {
		return nil
	}
	if !d.Allowed(msg.Username) {
		metrics.Commands.WithLabelValues(command, "denied").Inc()
		log.Debug().Str("username", msg.Username).Str("command", command).Msg("Sender not allowed")
		return nil
	}

	logger := log.With().
		Str("request_id", uuid.NewString()).
		Int64("chat_id", msg.ChatID).
		Str("command", command).
		Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			metrics.Commands.WithLabelValues(command, "error").Inc()
			logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Command panicked")
			replies = []Reply{{ChatID: msg.ChatID, Text: InternalError}}
		}
	}()

	text, err := handler(ctx, msg, args)
	if err != nil {
		metrics.Commands.WithLabelValues(command, "error").Inc()
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Command failed")
		return []Reply{{ChatID: msg.ChatID, Text: InternalError}}
	}

	metrics.Commands.WithLabelValues(command, "ok").Inc()
	logger.Debug().Dur("duration", time.Since(start)).Msg("Command handled")
	if text == "" {
		return nil
	}
	return []Reply{{ChatID: msg.ChatID, Text: Truncate(text)}}
}

// parse splits "/cmd@bot arg..." into a lower-cased command and its arguments.
func (d *Dispatcher) parse(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}

	command := strings.ToLower(fields[0])
	if at := strings.IndexByte(command, '@'); at >= 0 {
		target := command[at+1:]
		command = command[:at]
		if d.config.BotUsername != "" && !strings.EqualFold(target, d.config.BotUsername) {
			return "", nil, false
		}
	}
	return command, fields[1:], true
}

// zlog returns the request logger stored in ctx by Handle.
func zlog(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// errNoStore guards against a Dispatcher wired without storage.
var errNoStore = errors.New("no project store configured")

func (d *Dispatcher) store() (storage.ProjectStore, error) {
	if d.deps.Store == nil {
		return nil, errNoStore
	}
	return d.deps.Store, nil
}

// page advances the pagination cursor of view and loads that page. onFirstPage, if set,
// runs before page one is read.
func (d *Dispatcher) page(ctx context.Context, msg Message, view string, filter storage.Filter, onFirstPage func(context.Context)) (int, []models.Project, error) {
	store, err := d.store()
	if err != nil {
		return 0, nil, err
	}

	key := session.Key(msg.ChatID, view)
	page, err := d.deps.Sessions.Next(ctx, key)
	if err != nil {
		return 0, nil, fmt.Errorf("next page: %w", err)
	}
	if page == 1 && onFirstPage != nil {
		onFirstPage(ctx)
	}

	size := int64(d.config.PageSize)
	projects, err := store.Find(ctx, filter, storage.FindOptions{
		Sort:  storage.SortNewest,
		Skip:  int64(page-1) * size,
		Limit: size,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("find page %d: %w", page, err)
	}

	if len(projects) == 0 {
		if err := d.deps.Sessions.Reset(ctx, key); err != nil {
			zlog(ctx).Warn().Err(err).Str("view", view).Msg("Failed to reset page")
		}
	}
	return page, projects, nil
}

// count returns 0 when the store cannot answer.
func (d *Dispatcher) count(ctx context.Context, filter storage.Filter) int64 {
	store, err := d.store()
	if err != nil {
		return 0
	}
	n, err := store.Count(ctx, filter)
	if err != nil {
		zlog(ctx).Warn().Err(err).Msg("Count failed, using 0")
		return 0
	}
	return n
}
