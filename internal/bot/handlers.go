package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	appmodels "gitlab.com/yelinaung/quickrate/internal/models"
	"gitlab.com/yelinaung/quickrate/internal/rates"
	"gitlab.com/yelinaung/quickrate/internal/view"
)

const ratesUnavailable = "⚠️ Exchange rates are unavailable right now. Use /reset to try again."

// extractCommandArgs strips the command and an optional @botname suffix.
func extractCommandArgs(text, command string) string {
	args := strings.TrimSpace(strings.TrimPrefix(text, command))
	if strings.HasPrefix(args, "@") {
		if spaceIdx := strings.Index(args, " "); spaceIdx != -1 {
			args = strings.TrimSpace(args[spaceIdx:])
		} else {
			args = ""
		}
	}
	return args
}

func reply(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("chat", logger.HashChatID(chatID)).Msg("Failed to send message")
	}
}

// loadedSession returns the chat's view once its fetch has settled. It replies
// and returns false when rates could not be loaded.
func (b *Bot) loadedSession(ctx context.Context, tg TelegramAPI, chatID int64) (*view.Converter, bool) {
	v := b.session(chatID)
	if err := v.Wait(ctx); err != nil {
		return nil, false
	}
	if v.Model().State != appmodels.FetchStateLoaded {
		reply(ctx, tg, chatID, ratesUnavailable)
		return nil, false
	}
	return v, true
}

func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	firstName := ""
	if update.Message.From != nil {
		firstName = update.Message.From.FirstName
	}

	text := fmt.Sprintf(`👋 Welcome%s!

I convert %s amounts using today's published base dealing rates.

<b>Quick Start:</b>
• Send an amount like <code>13000</code>
• Pick a currency with <code>/currency USD</code>

Use /help to see all available commands.`, formatGreeting(firstName), appmodels.BaseCurrency)

	reply(ctx, tg, update.Message.Chat.ID, text)
}

func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := `📚 <b>Available Commands</b>

• <code>/rates</code> - Show the rate table
• <code>/currency</code> - List currencies
• <code>/currency &lt;code&gt;</code> - Select a currency
• <code>/amount &lt;number&gt;</code> - Set the amount to convert
• Just send a number like <code>13000</code> to set the amount
• <code>/reset</code> - Clear your session and reload rates`

	reply(ctx, tg, update.Message.Chat.ID, text)
}

func (b *Bot) handleRates(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleRatesCore(ctx, tgBot, update)
}

func (b *Bot) handleRatesCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	v, ok := b.loadedSession(ctx, tg, chatID)
	if !ok {
		return
	}

	m := v.Model()
	if !m.HasRates() {
		reply(ctx, tg, chatID, "📭 No rates have been published yet.")
		return
	}
	reply(ctx, tg, chatID, formatRatesTable(v.Snapshot().Records(), m.Currency))
}

func (b *Bot) handleCurrency(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleCurrencyCore(ctx, tgBot, update)
}

func (b *Bot) handleCurrencyCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	args := extractCommandArgs(update.Message.Text, "/currency")

	v, ok := b.loadedSession(ctx, tg, chatID)
	if !ok {
		return
	}

	if args == "" {
		reply(ctx, tg, chatID, formatCurrencyList(v.Model()))
		return
	}

	code, found := resolveCode(v.Snapshot(), args)
	if !found {
		reply(ctx, tg, chatID, fmt.Sprintf(
			"❌ Unknown currency: <code>%s</code>\n\nUse /currency to see available currencies.", escapeHTML(args)))
		return
	}

	v.SetCurrency(code)
	reply(ctx, tg, chatID, formatConversion(v.Model()))
}

func (b *Bot) handleAmount(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleAmountCore(ctx, tgBot, update)
}

func (b *Bot) handleAmountCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	args := extractCommandArgs(update.Message.Text, "/amount")

	if args == "" {
		reply(ctx, tg, chatID, "Usage: <code>/amount 13000</code>")
		return
	}

	amount, ok := parseAmount(args)
	if !ok {
		reply(ctx, tg, chatID, fmt.Sprintf("❌ Invalid amount: <code>%s</code>", escapeHTML(args)))
		return
	}

	b.applyAmount(ctx, tg, chatID, amount)
}

func (b *Bot) applyAmount(ctx context.Context, tg TelegramAPI, chatID int64, amount string) {
	v, ok := b.loadedSession(ctx, tg, chatID)
	if !ok {
		return
	}
	v.SetAmount(amount)
	reply(ctx, tg, chatID, formatConversion(v.Model()))
}

func (b *Bot) handleReset(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleResetCore(ctx, tgBot, update)
}

func (b *Bot) handleResetCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	b.dropSession(chatID)
	reply(ctx, tg, chatID, "🔄 Session cleared. Rates will be reloaded on your next message.")
}

// parseAmount accepts a decimal number with optional comma separators.
func parseAmount(text string) (string, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if cleaned == "" {
		return "", false
	}
	if _, err := rates.ParseAmount(cleaned); err != nil {
		return "", false
	}
	return cleaned, true
}

// resolveCode matches input against the snapshot's codes: exactly, then
// case-insensitively, then as a unit-quoted code such as JPY for JPY(100).
func resolveCode(snap rates.Snapshot, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if _, ok := snap.Lookup(input); ok {
		return input, true
	}
	upper := strings.ToUpper(input)
	for _, code := range snap.Codes() {
		if strings.ToUpper(code) == upper || strings.HasPrefix(strings.ToUpper(code), upper+"(") {
			return code, true
		}
	}
	return "", false
}
