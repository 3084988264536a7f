// Package telegram serves bot commands and delivers reports via the
// Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fngbot/internal/logger"
	"github.com/fngbot/internal/report"
)

// mediaGroupLimit is the Telegram cap on photos per media group.
const mediaGroupLimit = 10

const startText = "Hi! I track the CNN Fear & Greed Index.\n" +
	"Use /feargreed for the latest score and chart.\n" +
	"Use /components for the individual indicator charts."

// Reporter builds the reports this client delivers.
type Reporter interface {
	Index(ctx context.Context) (*report.IndexReport, error)
	Components(ctx context.Context) (*report.ComponentsReport, error)
}

// Client handles bot commands and scheduled deliveries.
type Client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	reports Reporter
}

// NewClient creates a Telegram client. chatID is the destination for
// scheduled deliveries.
func NewClient(botToken, chatID string, reports Reporter) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &Client{
		bot:     bot,
		chatID:  chatIDInt,
		reports: reports,
	}, nil
}

// ListenForCommands starts a goroutine that polls for Telegram updates
// and handles bot commands. It returns immediately; the goroutine stops
// when ctx is cancelled.
func (c *Client) ListenForCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil && update.Message.IsCommand() {
					c.handleCommand(ctx, update.Message)
				}
			}
		}
	}()
}

func (c *Client) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	logger.Info("Received /%s from chat %d", msg.Command(), msg.Chat.ID)
	switch msg.Command() {
	case "start":
		c.sendText(msg.Chat.ID, startText)
	case "feargreed":
		if err := c.deliverIndex(ctx, msg.Chat.ID); err != nil {
			logger.Error("Failed to handle /feargreed: %v", err)
		}
	case "components":
		if err := c.deliverComponents(ctx, msg.Chat.ID); err != nil {
			logger.Error("Failed to handle /components: %v", err)
		}
	}
}

// DeliverIndex sends the index report to the configured chat. Used by
// the scheduled job.
func (c *Client) DeliverIndex(ctx context.Context) error {
	return c.deliverIndex(ctx, c.chatID)
}

// DeliverComponents sends the component charts to the configured chat.
// Used by the scheduled job.
func (c *Client) DeliverComponents(ctx context.Context) error {
	return c.deliverComponents(ctx, c.chatID)
}

func (c *Client) deliverIndex(ctx context.Context, chatID int64) error {
	rep, err := c.reports.Index(ctx)
	if err != nil {
		c.sendText(chatID, "Sorry, I could not fetch the current Fear & Greed data.")
		return err
	}
	defer rep.Close()

	if err := c.sendMarkdownV2(chatID, formatIndexCaption(rep)); err != nil {
		return err
	}
	if rep.ChartPath == "" {
		return nil
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(rep.ChartPath))
	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send index chart: %w", err)
	}
	return nil
}

func (c *Client) deliverComponents(ctx context.Context, chatID int64) error {
	rep, err := c.reports.Components(ctx)
	if err != nil {
		c.sendText(chatID, "Sorry, I could not fetch the component data.")
		return err
	}
	defer rep.Close()

	paths := rep.Paths()
	if len(paths) == 0 {
		c.sendText(chatID, "Sorry, I could not generate any component charts.")
		return fmt.Errorf("no component charts rendered (%d failed)", rep.Failed)
	}

	c.sendText(chatID, "Component indicators over the last 12 months:")
	for _, batch := range batchPaths(paths, mediaGroupLimit) {
		media := make([]interface{}, 0, len(batch))
		for _, path := range batch {
			media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FilePath(path)))
		}
		if _, err := c.bot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
			return fmt.Errorf("failed to send component charts: %w", err)
		}
	}
	if rep.Failed > 0 {
		c.sendText(chatID, fmt.Sprintf("(%d component chart(s) could not be generated)", rep.Failed))
	}
	return nil
}

// formatIndexCaption builds the MarkdownV2 caption for the index
// report: bold score, human-readable rating, and whether a chart
// follows.
func formatIndexCaption(rep *report.IndexReport) string {
	var b strings.Builder
	b.WriteString("📊 *CNN Fear \\& Greed Index*\n\n")
	b.WriteString(fmt.Sprintf("Current score: *%s*\n", escapeMarkdownV2(fmt.Sprintf("%.2f", rep.Current.Score))))
	b.WriteString(fmt.Sprintf("Market sentiment: *%s*\n\n", escapeMarkdownV2(FormatRating(rep.Current.Rating))))
	if rep.ChartPath != "" {
		b.WriteString("The chart shows the last 12 months\\.")
	} else {
		b.WriteString("Historical data is unavailable, so there is no chart this time\\.")
	}
	return b.String()
}

// FormatRating turns a raw rating label like "extreme_fear" into a
// display string like "Extreme Fear".
func FormatRating(rating string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(rating, "_", " "))
}

// batchPaths splits paths into groups of at most size.
func batchPaths(paths []string, size int) [][]string {
	var batches [][]string
	for len(paths) > size {
		batches = append(batches, paths[:size])
		paths = paths[size:]
	}
	if len(paths) > 0 {
		batches = append(batches, paths)
	}
	return batches
}

func (c *Client) sendText(chatID int64, text string) {
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Warn("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (c *Client) sendMarkdownV2(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "MarkdownV2"
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
