package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultWhisperURL is the OpenAI transcription endpoint.
	DefaultWhisperURL = "https://api.openai.com/v1/audio/transcriptions"
	// DefaultWhisperTimeout is the default timeout for transcription
	// requests.
	DefaultWhisperTimeout = 60 * time.Second

	whisperModel = "whisper-1"
	// whisperPrompt nudges the model toward Traditional Chinese output
	// for the bot's travel-conversation audience.
	whisperPrompt = "請使用繁體中文。這是一段旅遊相關的對話。"
)

// Transcription is the speech-to-text outcome. Empty Text is a valid
// result meaning no speech was recognized, not an error.
type Transcription struct {
	Text string
	// Language is the canonical code mapped from the backend's detected
	// language name.
	Language language.Code
	// DurationSec is the recognized audio length as reported by the
	// backend.
	DurationSec float64
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	// Transcribe recognizes speech in an m4a clip. Fails with
	// ErrUnavailable when no credential is configured.
	Transcribe(ctx context.Context, audio []byte) (Transcription, error)
}

// WhisperClient implements Transcriber using the OpenAI Whisper API.
type WhisperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewWhisperClient creates a new Whisper client. apiKey may be empty,
// in which case every call fails with ErrUnavailable.
func NewWhisperClient(apiKey string, logger *logrus.Logger) *WhisperClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &WhisperClient{
		apiKey:  apiKey,
		baseURL: DefaultWhisperURL,
		httpClient: &http.Client{
			Timeout: DefaultWhisperTimeout,
		},
		logger: logger,
	}
}

// whisperResponse represents a verbose_json transcription response.
type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcribe recognizes speech in audio.
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (Transcription, error) {
	if c.apiKey == "" {
		return Transcription{}, fmt.Errorf("whisper: %w", ErrUnavailable)
	}

	c.logger.WithFields(logrus.Fields{
		"size": len(audio),
	}).Debug("Transcribing audio with Whisper")

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.m4a")
	if err != nil {
		return Transcription{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return Transcription{}, fmt.Errorf("write form file: %w", err)
	}
	writer.WriteField("model", whisperModel)
	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("prompt", whisperPrompt)
	if err := writer.Close(); err != nil {
		return Transcription{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return Transcription{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordSpeechRequest("transcribe", false)
		return Transcription{}, fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		recordSpeechRequest("transcribe", false)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Warn("Whisper returned non-OK status")
		return Transcription{}, fmt.Errorf("whisper returned status %d", resp.StatusCode)
	}

	var wResp whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&wResp); err != nil {
		recordSpeechRequest("transcribe", false)
		return Transcription{}, fmt.Errorf("decode response: %w", err)
	}

	recordSpeechRequest("transcribe", true)
	c.logger.WithFields(logrus.Fields{
		"text_length": len(wResp.Text),
		"language":    wResp.Language,
		"elapsed_ms":  time.Since(startTime).Milliseconds(),
	}).Info("Transcription completed")

	return Transcription{
		Text:        wResp.Text,
		Language:    MapDetectedLanguage(wResp.Language),
		DurationSec: wResp.Duration,
	}, nil
}

// whisperLanguages maps the backend's English language names to
// canonical codes.
var whisperLanguages = map[string]language.Code{
	"chinese":    language.ZhTW,
	"english":    language.EN,
	"japanese":   language.JA,
	"korean":     language.KO,
	"thai":       language.TH,
	"vietnamese": language.VI,
	"french":     language.FR,
	"german":     language.DE,
	"spanish":    language.ES,
	"italian":    language.IT,
	"portuguese": language.PT,
	"russian":    language.RU,
	"arabic":     language.AR,
	"turkish":    language.TR,
	"indonesian": language.ID,
}

// MapDetectedLanguage converts a detected language name to a canonical
// code, defaulting to Traditional Chinese for unknown names.
func MapDetectedLanguage(name string) language.Code {
	if code, ok := whisperLanguages[strings.ToLower(name)]; ok {
		return code
	}
	return language.ZhTW
}
