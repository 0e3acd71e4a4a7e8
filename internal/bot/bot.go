// Package bot provides the Telegram surface of the rate converter.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/view"
)

// Bot wraps the Telegram bot. Each chat owns one converter view, disposed of
// after idling or when the session limit is reached.
type Bot struct {
	bot      *bot.Bot
	fetcher  view.Fetcher
	observer view.Observer

	// baseCtx bounds every chat view; cancelled when polling stops.
	baseCtx context.Context

	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	mu          sync.Mutex
	sessions    map[int64]*chatSession
	lastCleanup time.Time
}

// New creates a Bot that loads rates with fetcher.
func New(token string, fetcher view.Fetcher, observer view.Observer) (*Bot, error) {
	b := newBot(fetcher, observer)

	opts := []bot.Option{
		bot.WithMiddlewares(b.logMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

func newBot(fetcher view.Fetcher, observer view.Observer) *Bot {
	return &Bot{
		fetcher:     fetcher,
		observer:    observer,
		baseCtx:     context.Background(),
		idleTTL:     defaultSessionIdleTTL,
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[int64]*chatSession),
	}
}

// Start polls for updates until ctx is done, then disposes of all chat views.
func (b *Bot) Start(ctx context.Context) {
	b.mu.Lock()
	b.baseCtx = ctx
	b.mu.Unlock()

	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)

	b.closeAll()
	logger.Log.Info().Msg("Bot stopped")
}

func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rates", bot.MatchTypePrefix, b.handleRates)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/currency", bot.MatchTypePrefix, b.handleCurrency)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/amount", bot.MatchTypePrefix, b.handleAmount)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, b.handleReset)
}

// logMiddleware logs each incoming message without exposing chat ids or text.
func (b *Bot) logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil {
			logger.Log.Info().
				Str("chat", logger.HashChatID(update.Message.Chat.ID)).
				Str("text", logger.SanitizeText(update.Message.Text)).
				Msg("User input")
		}
		next(ctx, tgBot, update)
	}
}

// defaultHandler treats a plain number as a new amount.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	if amount, ok := parseAmount(update.Message.Text); ok {
		b.applyAmount(ctx, tg, update.Message.Chat.ID, amount)
		return
	}

	reply(ctx, tg, update.Message.Chat.ID,
		"I didn't understand that. Send an amount like <code>13000</code> or use /help to see available commands.")
}
