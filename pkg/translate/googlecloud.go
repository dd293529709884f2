package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultGoogleTranslateURL is the Google Cloud Translation v2 endpoint.
	DefaultGoogleTranslateURL = "https://translation.googleapis.com/language/translate/v2"
	// DefaultGoogleTimeout is the default timeout for HTTP requests.
	DefaultGoogleTimeout = 15 * time.Second
)

// GoogleClient implements the Translator interface using the Google
// Cloud Translation API (v2). It is the general-purpose provider in the
// fallback chain: every catalog language has a Google code.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGoogleClient creates a new Google Cloud Translation client. apiKey
// may be empty, in which case every call fails with
// ErrProviderUnavailable.
func NewGoogleClient(apiKey string, logger *logrus.Logger) *GoogleClient {
	if logger == nil {
		logger = logrus.New()
	}

	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: DefaultGoogleTranslateURL,
		httpClient: &http.Client{
			Timeout: DefaultGoogleTimeout,
		},
		logger: logger,
	}
}

// Name identifies this engine.
func (c *GoogleClient) Name() string { return "google" }

// googleRequest represents a Translation API v2 request body.
type googleRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	Key    string `json:"key"`
}

// googleResponse represents a Translation API v2 response body.
type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate translates text via the Google Cloud Translation API.
func (c *GoogleClient) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("google: %w", ErrProviderUnavailable)
	}

	fromCode := language.GoogleCode(from)
	toCode := language.GoogleCode(to)

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"text_length": len(text),
	}).Debug("Translating text with Google Cloud Translation")

	reqPayload := googleRequest{
		Q:      text,
		Source: fromCode,
		Target: toCode,
		Format: "text",
		Key:    c.apiKey,
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&reqPayload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"engine": c.Name(),
		}).Warn("Google translation request failed")
		return "", &RemoteError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"engine":      c.Name(),
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Warn("Google translation returned non-OK status")
		return "", &RemoteError{
			Provider:    c.Name(),
			StatusCode:  resp.StatusCode,
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	var gResp googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", &RemoteError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(gResp.Data.Translations) == 0 {
		return "", &RemoteError{Provider: c.Name(), Err: fmt.Errorf("empty translations array")}
	}

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Translation completed successfully")

	return gResp.Data.Translations[0].TranslatedText, nil
}
