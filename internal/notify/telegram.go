package notify

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"alarmdemo/internal/logx"

	tele "gopkg.in/telebot.v4"
)

// TelegramConfig holds the telegram backend settings.
type TelegramConfig struct {
	Token  string
	ChatID int64

	// Timeout bounds each API request.
	Timeout time.Duration
}

// telegramAPI is the part of *tele.Bot the presenter uses.
type telegramAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// TelegramPresenter posts notifications to a Telegram chat. Replacing an id
// deletes the previous message; ClearAll deletes everything it posted.
type TelegramPresenter struct {
	api  telegramAPI
	chat tele.ChatID
	log  logx.Logger

	mu   sync.Mutex
	sent map[int]*tele.Message
}

// NewTelegram connects a bot with cfg.Token. The token is verified with a
// getMe request.
func NewTelegram(cfg TelegramConfig, log logx.Logger) (*TelegramPresenter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is not set")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return newTelegramPresenter(bot, cfg.ChatID, log), nil
}

func newTelegramPresenter(api telegramAPI, chatID int64, log logx.Logger) *TelegramPresenter {
	return &TelegramPresenter{
		api:  api,
		chat: tele.ChatID(chatID),
		log:  log.With(logx.String("backend", "telegram")),
		sent: map[int]*tele.Message{},
	}
}

// IsSupported returns true once a bot is configured.
func (p *TelegramPresenter) IsSupported() bool { return p.api != nil }

// Present sends n to the chat, deleting the message previously sent under id.
func (p *TelegramPresenter) Present(id int, n Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.sent[id]; ok {
		if err := p.api.Delete(prev); err != nil {
			p.log.Warn("delete replaced message failed", logx.Int("message_id", prev.ID), logx.Err(err))
		}
		delete(p.sent, id)
	}

	opts := &tele.SendOptions{
		ParseMode:           tele.ModeHTML,
		DisableNotification: n.Defaults&DefaultSound == 0 || n.Priority <= PriorityLow,
	}
	msg, err := p.api.Send(p.chat, formatTelegram(n), opts)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	p.sent[id] = msg
	return nil
}

// ClearAll deletes every message this presenter sent.
func (p *TelegramPresenter) ClearAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for id, msg := range p.sent {
		if err := p.api.Delete(msg); err != nil {
			errs = append(errs, fmt.Errorf("delete message %d: %w", msg.ID, err))
			continue
		}
		delete(p.sent, id)
	}
	return errors.Join(errs...)
}

func formatTelegram(n Notification) string {
	var b strings.Builder
	b.WriteString("⏰ <b>")
	b.WriteString(html.EscapeString(n.Title))
	b.WriteString("</b>")
	if n.Body != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(n.Body))
	}
	return b.String()
}
