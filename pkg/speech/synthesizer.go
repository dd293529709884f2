package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultTTSURL is the OpenAI speech synthesis endpoint.
	DefaultTTSURL = "https://api.openai.com/v1/audio/speech"
	// DefaultTTSTimeout is the default timeout for synthesis requests.
	DefaultTTSTimeout = 60 * time.Second

	// MaxSynthesisRunes is the hard input cap; longer text is truncated
	// before dispatch, matching the backend's input limit.
	MaxSynthesisRunes = 4096

	// MinClipDurationMs is the floor for the estimated clip duration.
	// Downstream audio players reject zero-length clips.
	MinClipDurationMs = 1000

	ttsModel = "tts-1"
	ttsVoice = "nova" // female voice, works across the catalog languages
)

// ErrUnavailable means speech features cannot be used because the API
// credential is absent.
var ErrUnavailable = errors.New("speech backend unavailable")

// Clip describes one synthesized audio artifact.
type Clip struct {
	// Filename inside the artifact store.
	Filename string
	// DurationMs is the estimated clip length in milliseconds, clamped
	// to MinClipDurationMs.
	DurationMs int
	// Size is the MP3 byte length.
	Size int
}

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize renders text in the hinted language and stores the
	// resulting clip. Fails with ErrUnavailable when no credential is
	// configured.
	Synthesize(ctx context.Context, text string, lang language.Code) (Clip, error)
}

// TTSClient implements Synthesizer using the OpenAI TTS API.
type TTSClient struct {
	apiKey     string
	baseURL    string
	store      *ArtifactStore
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewTTSClient creates a new TTS client writing clips into store.
// apiKey may be empty, in which case every call fails with
// ErrUnavailable.
func NewTTSClient(apiKey string, store *ArtifactStore, logger *logrus.Logger) *TTSClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &TTSClient{
		apiKey:  apiKey,
		baseURL: DefaultTTSURL,
		store:   store,
		httpClient: &http.Client{
			Timeout: DefaultTTSTimeout,
		},
		logger: logger,
	}
}

// ttsRequest represents an OpenAI speech synthesis request body.
type ttsRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// Synthesize renders text as an MP3 clip. Input beyond
// MaxSynthesisRunes is truncated; the estimated duration is derived
// from the MP3 byte length (~16 KB/s at 128 kbps) and clamped to the
// minimum floor.
func (c *TTSClient) Synthesize(ctx context.Context, text string, lang language.Code) (Clip, error) {
	if c.apiKey == "" {
		return Clip{}, fmt.Errorf("tts: %w", ErrUnavailable)
	}

	runes := []rune(text)
	if len(runes) > MaxSynthesisRunes {
		runes = runes[:MaxSynthesisRunes]
	}
	input := string(runes)

	c.logger.WithFields(logrus.Fields{
		"lang":        lang,
		"text_length": len(input),
	}).Debug("Synthesizing speech")

	reqPayload := ttsRequest{
		Model:          ttsModel,
		Input:          input,
		Voice:          ttsVoice,
		ResponseFormat: "mp3",
		Speed:          1.0,
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&reqPayload); err != nil {
		return Clip{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, buf)
	if err != nil {
		return Clip{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordSpeechRequest("synthesize", false)
		return Clip{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		recordSpeechRequest("synthesize", false)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Warn("TTS returned non-OK status")
		return Clip{}, fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		recordSpeechRequest("synthesize", false)
		return Clip{}, fmt.Errorf("read audio body: %w", err)
	}

	filename, err := c.store.Save(audio)
	if err != nil {
		recordSpeechRequest("synthesize", false)
		return Clip{}, err
	}

	durationMs := estimateDurationMs(len(audio))
	recordSpeechRequest("synthesize", true)

	c.logger.WithFields(logrus.Fields{
		"filename":    filename,
		"size":        len(audio),
		"duration_ms": durationMs,
		"elapsed_ms":  time.Since(startTime).Milliseconds(),
	}).Info("Speech synthesis completed")

	return Clip{Filename: filename, DurationMs: durationMs, Size: len(audio)}, nil
}

// estimateDurationMs derives a playback duration from the MP3 byte
// length, assuming ~16 KB per second (128 kbps), clamped to the floor.
func estimateDurationMs(size int) int {
	ms := (size*1000 + 15999) / 16000
	if ms < MinClipDurationMs {
		ms = MinClipDurationMs
	}
	return ms
}
