package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
	"github.com/wanderlab/kotoba/pkg/session"
	"github.com/wanderlab/kotoba/pkg/speech"
	"github.com/wanderlab/kotoba/pkg/translate"
)

// EventType classifies an inbound conversation event.
type EventType string

const (
	EventText   EventType = "text"
	EventVoice  EventType = "voice"
	EventFollow EventType = "follow"
)

// Event is one validated inbound event. Signature verification happens
// in the transport layer before the engine sees it.
type Event struct {
	Type   EventType
	UserID string
	// ReplyToken is opaque to the engine; the transport uses it to
	// deliver the reply.
	ReplyToken string
	// Text is set for text events.
	Text string
	// Audio is the recorded clip for voice events, already downloaded
	// by the transport.
	Audio []byte
}

// Message is one outbound reply part. A reply is an ordered sequence of
// parts: text, optionally followed by an audio reference.
type Message struct {
	Text string
	// AudioURL references a stored clip; empty for text-only parts.
	AudioURL string
	// AudioDurationMs is the clip length the audio player should show.
	AudioDurationMs int
}

// TextTranslator is the engine's view of the translation router.
type TextTranslator interface {
	Translate(ctx context.Context, text string, from, to language.Code) (translate.Result, error)
}

// Engine interprets inbound events, consults and mutates per-user
// session state, invokes translation and speech, and produces outbound
// message sequences. It is stateless apart from the injected stores and
// safe for concurrent use across users; per-user event ordering is the
// Dispatcher's job.
type Engine struct {
	sessions    *session.Store
	translator  TextTranslator
	transcriber speech.Transcriber // nil disables voice input
	synthesizer speech.Synthesizer // nil disables audio replies
	baseURL     string
	logger      *logrus.Logger
}

// EngineConfig wires an Engine. Transcriber and Synthesizer are
// optional; when absent the engine degrades to the corresponding
// text-only behavior instead of failing.
type EngineConfig struct {
	Sessions    *session.Store
	Translator  TextTranslator
	Transcriber speech.Transcriber
	Synthesizer speech.Synthesizer
	// BaseURL is the public prefix under which stored audio clips are
	// reachable (clip URL = BaseURL + "/audio/" + filename).
	BaseURL string
	Logger  *logrus.Logger
}

// NewEngine creates a conversation engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Engine{
		sessions:    cfg.Sessions,
		translator:  cfg.Translator,
		transcriber: cfg.Transcriber,
		synthesizer: cfg.Synthesizer,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		logger:      cfg.Logger,
	}
}

// Handle processes one event to completion and returns the ordered
// reply parts. Events for the same user must be serialized by the
// caller.
func (e *Engine) Handle(ctx context.Context, ev Event) []Message {
	recordEvent(string(ev.Type))

	switch ev.Type {
	case EventFollow:
		// Lazy default session creation is the only mutation.
		e.sessions.Pair(ev.UserID)
		return []Message{{Text: welcomeReply}}
	case EventVoice:
		return e.handleVoice(ctx, ev)
	case EventText:
		return e.handleText(ctx, ev)
	default:
		e.logger.WithFields(logrus.Fields{
			"type": ev.Type,
		}).Warn("Dropping event of unknown type")
		return nil
	}
}

// handleText walks the transition priority list; the first matching
// rule wins and later rules are not evaluated.
func (e *Engine) handleText(ctx context.Context, ev Event) []Message {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}

	// 1. Menu keyword.
	if msgs := e.handleMenu(ev.UserID, text); msgs != nil {
		return msgs
	}

	// 2. Command prefix (half- or full-width slash).
	if strings.HasPrefix(text, "/") || strings.HasPrefix(text, "／") {
		return e.handleCommand(ev.UserID, strings.Replace(text, "／", "/", 1))
	}

	// 3. Two-language shortcut token.
	if pair, ok := shortcutPairs[text]; ok {
		if err := e.sessions.SetPair(ev.UserID, pair.From, pair.To); err != nil {
			return []Message{{Text: samePairReply}}
		}
		return []Message{{Text: pairSwitchedReply(pair)}}
	}

	// 4. Replay N.
	if m := replayPattern.FindStringSubmatch(text); m != nil {
		return e.handleReplay(ctx, ev.UserID, parseIndex(m[1]))
	}

	// 5. Detail N.
	if m := detailPattern.FindStringSubmatch(text); m != nil {
		return e.handleDetail(ev.UserID, parseIndex(m[1]))
	}

	// 6. Translatable content.
	return e.handleContent(ctx, ev.UserID, text)
}

// handleContent translates free text, choosing the direction by
// detecting whether the text looks like the session's source language.
func (e *Engine) handleContent(ctx context.Context, userID, text string) []Message {
	pair := e.sessions.Pair(userID)

	from, to := pair.From, pair.To
	if !language.Matches(text, pair.From) {
		from, to = pair.To, pair.From
	}

	result, err := e.translator.Translate(ctx, text, from, to)
	if err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"from":    from,
			"to":      to,
		}).Error("Translation failed")
		return []Message{{Text: translationFailedReply}}
	}

	e.sessions.Record(userID, session.Record{
		Original:   text,
		Translated: result.Text,
		From:       from,
		To:         to,
		Modality:   session.ModalityText,
		CreatedAt:  time.Now(),
	})

	return []Message{{Text: result.Text}}
}

// handleVoice transcribes, translates and answers with text plus a
// best-effort synthesized clip. Synthesis failure degrades to a
// text-only reply; it never fails the turn.
func (e *Engine) handleVoice(ctx context.Context, ev Event) []Message {
	if e.transcriber == nil {
		return []Message{{Text: voiceUnavailableReply}}
	}

	transcription, err := e.transcriber.Transcribe(ctx, ev.Audio)
	if err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": ev.UserID,
		}).Error("Transcription failed")
		return []Message{{Text: voiceFailedReply}}
	}

	text := strings.TrimSpace(transcription.Text)
	if text == "" {
		// No speech detected: a valid outcome, no history mutation.
		return []Message{{Text: voiceNotRecognizedReply}}
	}

	pair := e.sessions.Pair(ev.UserID)
	detected := transcription.Language

	// The backend reports one Chinese language; treat it as matching
	// either Chinese variant the session may be configured with.
	matchesSource := detected == pair.From ||
		(detected == language.ZhTW && strings.HasPrefix(string(pair.From), "zh"))

	from, to := pair.From, pair.To
	if !matchesSource {
		from, to = pair.To, pair.From
	}

	result, err := e.translator.Translate(ctx, text, from, to)
	if err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": ev.UserID,
		}).Error("Voice translation failed")
		return []Message{{Text: translationFailedReply}}
	}

	e.sessions.Record(ev.UserID, session.Record{
		Original:   text,
		Translated: result.Text,
		From:       from,
		To:         to,
		Modality:   session.ModalityVoice,
		CreatedAt:  time.Now(),
	})

	msgs := []Message{{Text: voiceResultReply(text, result.Text)}}
	if clip, ok := e.synthesize(ctx, result.Text, to); ok {
		msgs = append(msgs, clip)
	}
	return msgs
}

// handleReplay re-synthesizes the clip for a history record. An
// out-of-range index answers with a not-found reply and mutates
// nothing.
func (e *Engine) handleReplay(ctx context.Context, userID string, index int) []Message {
	history := e.sessions.History(userID)
	if index < 1 || index > len(history) {
		return []Message{{Text: notFoundReply(index)}}
	}
	rec := history[index-1]

	clip, ok := e.synthesize(ctx, rec.Translated, rec.To)
	if !ok {
		return []Message{{Text: replayFailedReply(index, rec)}}
	}
	return []Message{{Text: replayReply(index, rec)}, clip}
}

// handleDetail shows the full original/translated pair with timestamp.
func (e *Engine) handleDetail(userID string, index int) []Message {
	history := e.sessions.History(userID)
	if index < 1 || index > len(history) {
		return []Message{{Text: notFoundReply(index)}}
	}
	return []Message{{Text: detailReply(index, history[index-1])}}
}

// synthesize renders a clip and builds the audio message part. It
// returns ok=false on any failure, including an absent synthesizer.
func (e *Engine) synthesize(ctx context.Context, text string, lang language.Code) (Message, bool) {
	if e.synthesizer == nil {
		return Message{}, false
	}
	clip, err := e.synthesizer.Synthesize(ctx, text, lang)
	if err != nil {
		e.logger.WithError(err).Warn("Speech synthesis failed, replying text-only")
		return Message{}, false
	}
	return Message{
		AudioURL:        e.baseURL + "/audio/" + clip.Filename,
		AudioDurationMs: clip.DurationMs,
	}, true
}
