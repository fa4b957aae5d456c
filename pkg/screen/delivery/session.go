package delivery

import (
	"context"
	"html"
	"reflect"
	"time"

	"github.com/KeynihAV/aladdin/pkg/host"
	screenPkg "github.com/KeynihAV/aladdin/pkg/screen"
	"github.com/KeynihAV/aladdin/pkg/screen/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	AnswerCallbackQuery(config tgbotapi.CallbackConfig) (tgbotapi.APIResponse, error)
	DeleteMessage(config tgbotapi.DeleteMessageConfig) (tgbotapi.APIResponse, error)
}

// session is one chat: its screen, the loop the screen runs on and the
// Telegram side of the host primitives. lastSeen is guarded by the bot's
// mutex; everything below screen is touched only from the loop.
type session struct {
	chatID   int64
	bot      botAPI
	loop     *host.Loop
	cancel   context.CancelFunc
	lastSeen time.Time
	logger   *zap.Logger
	screen   *usecase.ScreenManager

	messageID    int
	lastText     string
	lastMarkup   tgbotapi.InlineKeyboardMarkup
	callbackID   string
	confirmClose bool
}

// handle runs one event for the chat. callbackID is the pending button press
// that the first alert (or the final acknowledgement) answers.
func (s *session) handle(ev screenPkg.Event, callbackID string) {
	s.callbackID = callbackID
	err := s.screen.Handle(ev)
	if err != nil {
		s.logger.Info("screen event rejected",
			zap.String("event", safeEvent(ev)),
			zap.Error(err),
		)
	}
	s.ack("")
}

// restart forgets the current screen message so the next paint posts a new one.
func (s *session) restart() {
	s.messageID = 0
	s.lastText = ""
	s.lastMarkup = tgbotapi.InlineKeyboardMarkup{}
}

func (s *session) ack(text string) {
	if s.callbackID == "" {
		return
	}
	cfg := tgbotapi.NewCallback(s.callbackID, text)
	if text != "" {
		cfg = tgbotapi.NewCallbackWithAlert(s.callbackID, text)
	}
	s.callbackID = ""
	if _, err := s.bot.AnswerCallbackQuery(cfg); err != nil {
		s.logger.Warn("answer callback", zap.Error(err))
	}
}

func (s *session) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := s.bot.Send(c)
	if err != nil {
		s.logger.Warn("telegram send", zap.Error(err))
	}
	return msg, err
}

func (s *session) deleteMessage(messageID int) {
	if _, err := s.bot.DeleteMessage(tgbotapi.NewDeleteMessage(s.chatID, messageID)); err != nil {
		s.logger.Warn("delete input message", zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (s *session) Alert(text string) {
	if s.callbackID != "" {
		s.ack(text)
		return
	}
	_, _ = s.send(tgbotapi.NewMessage(s.chatID, text))
}

func (s *session) ShowProgress() {
	_, _ = s.send(tgbotapi.NewChatAction(s.chatID, tgbotapi.ChatTyping))
}

// HideProgress has nothing to do: the typing status expires by itself.
func (s *session) HideProgress() {}

func (s *session) Haptic() {
	s.ack("")
}

// Copy posts text as a code block, which Telegram copies with one tap.
func (s *session) Copy(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, "<code>"+html.EscapeString(text)+"</code>")
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := s.send(msg)
	return err
}

func (s *session) EnableClosingConfirmation() {
	s.confirmClose = true
}

// Paint edits the screen message in place, or posts it when there is none yet.
// Frames identical to the last one are not sent.
func (s *session) Paint(ins []screenPkg.Instruction) {
	text, markup := Format(ins)
	if s.messageID != 0 && text == s.lastText && reflect.DeepEqual(markup, s.lastMarkup) {
		return
	}

	if s.messageID == 0 {
		msg := tgbotapi.NewMessage(s.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if len(markup.InlineKeyboard) > 0 {
			msg.ReplyMarkup = markup
		}
		sent, err := s.send(msg)
		if err != nil {
			return
		}
		s.messageID = sent.MessageID
	} else {
		edit := tgbotapi.NewEditMessageText(s.chatID, s.messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.DisableWebPagePreview = true
		if len(markup.InlineKeyboard) > 0 {
			edit.ReplyMarkup = &markup
		}
		if _, err := s.send(edit); err != nil {
			return
		}
	}
	s.lastText = text
	s.lastMarkup = markup
}

func (s *session) SendImage(name string, png []byte) {
	photo := tgbotapi.NewPhotoUpload(s.chatID, tgbotapi.FileBytes{Name: name, Bytes: png})
	_, _ = s.send(photo)
}

// safeEvent keeps typed text out of the logs: it may be a secret.
func safeEvent(ev screenPkg.Event) string {
	if ev.Component == "input" {
		return "input:text"
	}
	return ev.String()
}
