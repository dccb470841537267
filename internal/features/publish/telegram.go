package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"co2-emissions/internal/infra/fs"
	"co2-emissions/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Publisher delivers the text report and the chart images somewhere.
type Publisher interface {
	Publish(ctx context.Context, report string, charts []string) error
}

// Nop discards everything; used when publishing is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, []string) error { return nil }

// maxMessageLen is the Telegram limit for one text message.
const maxMessageLen = 4096

// TelegramPublisher sends the report as a message and every chart as a photo
// to one chat.
type TelegramPublisher struct {
	token    string
	chatID   int64
	endpoint string
	client   *http.Client

	once   sync.Once
	bot    *tgbotapi.BotAPI
	botErr error
}

// NewTelegramPublisher validates the settings; the bot connects on first Publish.
// An empty endpoint means the public Bot API.
func NewTelegramPublisher(token, chatID, endpoint string) (*TelegramPublisher, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is empty")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &TelegramPublisher{token: token, chatID: id, endpoint: endpoint, client: &http.Client{}}, nil
}

func (p *TelegramPublisher) connect() (*tgbotapi.BotAPI, error) {
	p.once.Do(func() {
		bot, err := tgbotapi.NewBotAPIWithClient(p.token, p.endpoint, p.client)
		if err != nil {
			p.botErr = fmt.Errorf("failed to create telegram bot: %w", err)
			return
		}
		p.bot = bot
		log.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	})
	return p.bot, p.botErr
}

// Publish sends the report first. Chart failures do not stop the remaining
// charts; they are returned together.
func (p *TelegramPublisher) Publish(ctx context.Context, report string, charts []string) error {
	bot, err := p.connect()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(p.chatID, truncate(report, maxMessageLen))
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}

	var errs []error
	sent := 0
	for _, path := range charts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := fs.RequireNonEmpty(path); err != nil {
			log.LogWarn("Skipping chart", zap.String("chartPath", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
		photo.Caption = filepath.Base(path)
		if _, err := bot.Send(photo); err != nil {
			log.LogError("Failed to send chart", zap.String("chartPath", path), zap.Error(err))
			errs = append(errs, fmt.Errorf("send %s: %w", filepath.Base(path), err))
			continue
		}
		sent++
	}

	log.LogInfo("Report published to Telegram",
		zap.Int64("chatID", p.chatID),
		zap.Int("charts", sent),
		zap.Int("failed", len(charts)-sent))
	return errors.Join(errs...)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
