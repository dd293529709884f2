package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/service"
)

const (
	// DefaultEventTimeout bounds the handling of one webhook event,
	// including provider calls and speech round-trips.
	DefaultEventTimeout = 60 * time.Second

	// maxAudioBytes caps a downloaded voice message.
	maxAudioBytes = 10 << 20
)

// LineWebhook receives LINE platform callbacks, verifies their
// signature, and feeds the resulting events to the conversation engine
// through the per-user dispatcher. The webhook acknowledges the
// platform immediately; replies go out asynchronously via the reply
// token.
type LineWebhook struct {
	bot        *linebot.Client
	engine     *service.Engine
	dispatcher *service.Dispatcher
	timeout    time.Duration
	logger     *logrus.Logger
}

// WebhookConfig wires a LineWebhook.
type WebhookConfig struct {
	ChannelSecret string
	ChannelToken  string
	Engine        *service.Engine
	Dispatcher    *service.Dispatcher
	Logger        *logrus.Logger
}

// NewLineWebhook creates the webhook receiver. Both channel
// credentials are required.
func NewLineWebhook(cfg WebhookConfig) (*LineWebhook, error) {
	if cfg.ChannelSecret == "" || cfg.ChannelToken == "" {
		return nil, errors.New("line webhook: channel secret and access token are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	bot, err := linebot.New(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("create line client: %w", err)
	}

	return &LineWebhook{
		bot:        bot,
		engine:     cfg.Engine,
		dispatcher: cfg.Dispatcher,
		timeout:    DefaultEventTimeout,
		logger:     cfg.Logger,
	}, nil
}

// Handle is the HTTP handler for POST /webhook/line.
func (wh *LineWebhook) Handle(w http.ResponseWriter, r *http.Request) {
	events, err := wh.bot.ParseRequest(r)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			wh.logger.Warn("Rejected webhook with invalid signature")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		wh.logger.WithError(err).Error("Failed to parse webhook request")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Ack first; event handling continues on the dispatcher.
	w.WriteHeader(http.StatusOK)

	for _, event := range events {
		wh.enqueue(event)
	}
}

// enqueue maps one platform event onto the engine's event model and
// schedules it on the owner's serial queue. Unsupported event and
// message types are dropped.
func (wh *LineWebhook) enqueue(event *linebot.Event) {
	if event.Source == nil || event.Source.UserID == "" {
		return
	}
	userID := event.Source.UserID

	var ev service.Event
	var audioMessageID string

	switch event.Type {
	case linebot.EventTypeFollow:
		ev = service.Event{Type: service.EventFollow, UserID: userID, ReplyToken: event.ReplyToken}

	case linebot.EventTypeMessage:
		switch msg := event.Message.(type) {
		case *linebot.TextMessage:
			ev = service.Event{
				Type:       service.EventText,
				UserID:     userID,
				ReplyToken: event.ReplyToken,
				Text:       msg.Text,
			}
		case *linebot.AudioMessage:
			ev = service.Event{
				Type:       service.EventVoice,
				UserID:     userID,
				ReplyToken: event.ReplyToken,
			}
			audioMessageID = msg.ID
		default:
			wh.logger.WithFields(logrus.Fields{
				"user_id": userID,
			}).Debug("Ignoring unsupported message type")
			return
		}

	default:
		return
	}

	wh.dispatcher.Dispatch(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), wh.timeout)
		defer cancel()

		if audioMessageID != "" {
			audio, err := wh.downloadAudio(ctx, audioMessageID)
			if err != nil {
				wh.logger.WithError(err).WithFields(logrus.Fields{
					"user_id":    userID,
					"message_id": audioMessageID,
				}).Error("Failed to download voice message")
				return
			}
			ev.Audio = audio
		}

		msgs := wh.engine.Handle(ctx, ev)
		wh.reply(ctx, ev.ReplyToken, msgs)
	})
}

// downloadAudio fetches the recorded clip for a voice message.
func (wh *LineWebhook) downloadAudio(ctx context.Context, messageID string) ([]byte, error) {
	content, err := wh.bot.GetMessageContent(messageID).WithContext(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message content: %w", err)
	}
	defer content.Content.Close()

	data, err := io.ReadAll(io.LimitReader(content.Content, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("read message content: %w", err)
	}
	return data, nil
}

// reply delivers the engine's message parts through the reply token.
func (wh *LineWebhook) reply(ctx context.Context, replyToken string, msgs []service.Message) {
	if len(msgs) == 0 || replyToken == "" {
		return
	}

	parts := make([]linebot.SendingMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.AudioURL != "" {
			parts = append(parts, linebot.NewAudioMessage(m.AudioURL, m.AudioDurationMs))
			continue
		}
		parts = append(parts, linebot.NewTextMessage(m.Text))
	}

	if _, err := wh.bot.ReplyMessage(replyToken, parts...).WithContext(ctx).Do(); err != nil {
		wh.logger.WithError(err).Error("Failed to deliver reply")
	}
}
