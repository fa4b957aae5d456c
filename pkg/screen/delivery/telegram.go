package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	configPkg "github.com/KeynihAV/aladdin/pkg/config"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/locale"
	screenPkg "github.com/KeynihAV/aladdin/pkg/screen"
	"github.com/KeynihAV/aladdin/pkg/screen/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

const (
	sessionQueueSize   = 64
	DefaultSessionIdle = 24 * time.Hour
)

type ScreenBot struct {
	ctx      context.Context
	bot      botAPI
	backend  usecase.Backend
	settings usecase.Settings
	logger   *zap.Logger

	// sessions without updates for longer than idle are dropped by EvictIdle
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewScreenBot(ctx context.Context, bot botAPI, backend usecase.Backend, settings usecase.Settings, logger *zap.Logger) *ScreenBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenBot{
		ctx:      ctx,
		bot:      bot,
		backend:  backend,
		settings: settings,
		logger:   logger,
		idle:     DefaultSessionIdle,
		now:      time.Now,
		sessions: make(map[int64]*session),
	}
}

// SetSessionIdle changes how long a silent chat keeps its session.
func (sb *ScreenBot) SetSessionIdle(d time.Duration) {
	if d > 0 {
		sb.idle = d
	}
}

// StartTgBot connects to Telegram and serves screens until ctx is done. With a
// webhook URL configured updates arrive on the default HTTP mux, otherwise
// they are long polled.
func StartTgBot(ctx context.Context, config *configPkg.Config, backend usecase.Backend, logger *zap.Logger) error {
	bot, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		return fmt.Errorf("not create bot api: %v", err)
	}

	updates, err := updatesChannel(bot, config)
	if err != nil {
		return err
	}

	settings := usecase.Settings{
		FundingAddress:  config.App.FundingAddress,
		SuccessDelay:    config.App.SuccessDelay,
		DefaultLanguage: locale.Lang(config.App.DefaultLanguage),
	}
	sb := NewScreenBot(ctx, bot, backend, settings, logger)
	sb.SetSessionIdle(config.Bot.SessionIdle)
	logger.Info("telegram bot started",
		zap.String("bot", bot.Self.UserName),
		zap.Bool("webhook", config.Bot.WebhookURL != ""),
		zap.Duration("session_idle", sb.idle),
	)

	evictTicker := time.NewTicker(sb.idle / 4)
	defer evictTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-evictTicker.C:
			sb.EvictIdle()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			sb.HandleUpdate(update)
		}
	}
}

func updatesChannel(bot *tgbotapi.BotAPI, config *configPkg.Config) (tgbotapi.UpdatesChannel, error) {
	if config.Bot.WebhookURL == "" {
		if _, err := bot.RemoveWebhook(); err != nil {
			return nil, fmt.Errorf("remove webhook: %v", err)
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = config.Bot.UpdateTimeout
		return bot.GetUpdatesChan(u)
	}

	resp, err := bot.SetWebhook(tgbotapi.NewWebhook(config.Bot.WebhookURL))
	if err != nil {
		return nil, fmt.Errorf("not set webhook: %v", err)
	}
	if !resp.Ok {
		return nil, fmt.Errorf("error creating webhook. code: %v, description: %v", resp.ErrorCode, resp.Description)
	}
	return bot.ListenForWebhook(WebhookPath(config.Bot.WebhookURL)), nil
}

// WebhookPath is the path part of the webhook URL, "/" when it has none.
func WebhookPath(webhookURL string) string {
	u, err := url.Parse(webhookURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// HandleUpdate routes one Telegram update to the session of its chat.
func (sb *ScreenBot) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		sb.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		sb.handleMessage(update.Message)
	}
}

func (sb *ScreenBot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
		return
	}
	s, _ := sb.session(cq.Message.Chat.ID, cq.From)

	ev, err := screenPkg.ParseEvent(cq.Data)
	if err != nil {
		sb.logger.Info("bad callback data", zap.String("data", cq.Data))
		_, _ = sb.bot.AnswerCallbackQuery(tgbotapi.NewCallback(cq.ID, ""))
		return
	}
	sb.post(s, func() {
		if cq.Message.MessageID != s.messageID && s.messageID != 0 {
			s.callbackID = cq.ID
			s.ack("")
			return
		}
		s.handle(ev, cq.ID)
	})
}

func (sb *ScreenBot) handleMessage(msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.From == nil {
		return
	}
	s, created := sb.session(msg.Chat.ID, msg.From)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			if created {
				return
			}
			sb.post(s, func() {
				s.restart()
				if s.confirmClose {
					s.screen.Refresh()
					return
				}
				s.handle(screenPkg.Event{Component: "app", Action: "start"}, "")
			})
		case "cancel":
			sb.post(s, func() {
				s.handle(screenPkg.Event{Component: "app", Action: "cancel"}, "")
			})
		}
		return
	}

	if msg.Text == "" {
		return
	}
	messageID, text := msg.MessageID, msg.Text
	sb.post(s, func() {
		s.deleteMessage(messageID)
		s.handle(screenPkg.Event{Component: "input", Action: "text", Value: text}, "")
	})
}

// EvictIdle stops the loops of sessions that got no update for longer than
// the idle period and forgets them. The next update of such a chat starts a
// fresh screen. It returns how many sessions were dropped.
func (sb *ScreenBot) EvictIdle() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	now := sb.now()
	evicted := 0
	for chatID, s := range sb.sessions {
		if now.Sub(s.lastSeen) <= sb.idle {
			continue
		}
		s.cancel()
		delete(sb.sessions, chatID)
		evicted++
	}
	if evicted > 0 {
		sb.logger.Info("evicted idle sessions",
			zap.Int("evicted", evicted),
			zap.Int("active", len(sb.sessions)),
		)
	}
	return evicted
}

// Sessions is the number of live chat sessions.
func (sb *ScreenBot) Sessions() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return len(sb.sessions)
}

func (sb *ScreenBot) post(s *session, fn func()) {
	if err := s.loop.Post(fn); err != nil {
		sb.logger.Warn("post to session", zap.Int64("chat_id", s.chatID), zap.Error(err))
	}
}

// session returns the chat's session. A session created by this call has its
// screen start already queued.
func (sb *ScreenBot) session(chatID int64, from *tgbotapi.User) (*session, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if s, ok := sb.sessions[chatID]; ok {
		s.lastSeen = sb.now()
		return s, false
	}

	user := host.User{
		ID:        int64(from.ID),
		FirstName: from.FirstName,
		UserName:  from.UserName,
	}
	logger := sb.logger.With(zap.Int64("chat_id", chatID))
	ctx, cancel := context.WithCancel(sb.ctx)
	s := &session{
		chatID:   chatID,
		bot:      sb.bot,
		loop:     host.NewLoop(ctx, sessionQueueSize),
		logger:   logger,
		cancel:   cancel,
		lastSeen: sb.now(),
	}
	s.screen = usecase.NewScreenManager(user, sb.backend, s, s.loop, s, sb.settings, logger)
	s.loop.AfterEach(s.screen.Repaint)
	sb.sessions[chatID] = s

	go func() {
		if err := s.loop.Run(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("session loop stopped", zap.Error(err))
		}
	}()
	sb.post(s, func() {
		s.handle(screenPkg.Event{Component: "app", Action: "start"}, "")
	})
	return s, true
}
