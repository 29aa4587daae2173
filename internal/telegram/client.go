// Package telegram sends draw digests and service health notices through the
// Telegram Bot API. Messages use MarkdownV2 and delivery is retried with a
// linear backoff.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// maxDigestCandidates is how many first-prize candidates a digest lists.
const maxDigestCandidates = 5

// sender is the part of *tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// Digest summarizes one watch cycle that brought in new draws.
type Digest struct {
	Added       int
	Latest      models.DrawRecord
	Report      models.AnalysisReport
	Predictions models.PredictionSet
}

// NewClient creates a new Telegram client. The chat ID is checked before the
// bot token is verified with the API.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatIDInt, maxRetries, retryDelayBase), nil
}

func newClient(bot sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// SendDigest sends the summary of newly fetched draws.
func (c *Client) SendDigest(d Digest) error {
	return c.send(formatDigest(d))
}

// SendError reports the first failure of a failure streak.
func (c *Client) SendError(err error) error {
	return c.send(fmt.Sprintf("⚠️ *Watch cycle failed*\n\n%s", escapeMarkdownV2(err.Error())))
}

// SendRecovery reports that the watch loop works again.
func (c *Client) SendRecovery(failures int) error {
	return c.send(fmt.Sprintf("✅ *Watch recovered* after %d failed %s",
		failures, plural(failures, "cycle", "cycles")))
}

func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

func formatDigest(d Digest) string {
	var b strings.Builder

	b.WriteString("🎰 *New lottery results*\n\n")
	if d.Latest.Date != "" {
		fmt.Fprintf(&b, "📅 Draw: %s\n", escapeMarkdownV2(d.Latest.Date))
	}
	if d.Latest.PrimaryValue != "" {
		fmt.Fprintf(&b, "🥇 First prize: *%s*\n", escapeMarkdownV2(d.Latest.PrimaryValue))
	}
	if len(d.Latest.ThreeDigitPrefixes) > 0 {
		fmt.Fprintf(&b, "🔢 Front 3: %s\n", escapeMarkdownV2(d.Latest.PrefixField()))
	}
	if len(d.Latest.ThreeDigitSuffixes) > 0 {
		fmt.Fprintf(&b, "🔢 Back 3: %s\n", escapeMarkdownV2(d.Latest.SuffixField()))
	}
	if d.Latest.TwoDigitValue != "" {
		fmt.Fprintf(&b, "🔢 Back 2: %s\n", escapeMarkdownV2(d.Latest.TwoDigitValue))
	}

	fmt.Fprintf(&b, "\n📊 %d new %s, %d in history\n",
		d.Added, plural(d.Added, "draw", "draws"), d.Report.TotalRecords)
	fmt.Fprintf(&b, "🎯 Confidence: %s\n", escapeMarkdownV2(fmt.Sprintf("%.0f%%", d.Report.Confidence*100)))
	fmt.Fprintf(&b, "🔥 Hot: %s\n", formatDigits(d.Report.HotColdNumbers.HotDigits()))
	fmt.Fprintf(&b, "❄️ Cold: %s\n", formatDigits(d.Report.HotColdNumbers.ColdDigits()))

	candidates := d.Predictions.FirstPrize
	if len(candidates) > maxDigestCandidates {
		candidates = candidates[:maxDigestCandidates]
	}
	if len(candidates) > 0 {
		b.WriteString("\n💡 Candidates:\n")
		for i, c := range candidates {
			fmt.Fprintf(&b, "%d\\. `%s`\n", i+1, c)
		}
	}

	return b.String()
}

func formatDigits(digits []int) string {
	if len(digits) == 0 {
		return "none"
	}
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
