package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultDeepLTimeout is the default timeout for DeepL HTTP requests.
	DefaultDeepLTimeout = 15 * time.Second

	deeplPaidURL = "https://api.deepl.com/v2/translate"
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
)

// DeepLClient implements the Translator interface using the DeepL API.
// DeepL is the European-language specialist in the fallback chain; the
// router only routes pairs to it when both ends are in the European
// subset and DeepL declares capability for both codes.
type DeepLClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewDeepLClient creates a new DeepL client. apiKey may be empty, in
// which case every call fails with ErrProviderUnavailable. Free-tier
// keys (suffix ":fx") are dispatched to the api-free endpoint.
func NewDeepLClient(apiKey string, logger *logrus.Logger) *DeepLClient {
	if logger == nil {
		logger = logrus.New()
	}

	baseURL := deeplPaidURL
	if strings.HasSuffix(apiKey, ":fx") {
		baseURL = deeplFreeURL
	}

	return &DeepLClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultDeepLTimeout,
		},
		logger: logger,
	}
}

// Name identifies this engine.
func (c *DeepLClient) Name() string { return "deepl" }

// deeplRequest represents a DeepL API request body.
type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

// deeplResponse represents a DeepL API response body.
type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate translates text via DeepL. Pairs with an end outside
// DeepL's capability set fail with *UnsupportedPairError.
func (c *DeepLClient) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("deepl: %w", ErrProviderUnavailable)
	}

	fromCode, fromOK := language.DeepLCode(from)
	toCode, toOK := language.DeepLCode(to)
	if !fromOK || !toOK {
		return "", &UnsupportedPairError{Provider: c.Name(), From: from, To: to}
	}

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"text_length": len(text),
	}).Debug("Translating text with DeepL")

	reqPayload := deeplRequest{
		Text:       []string{text},
		SourceLang: fromCode,
		TargetLang: toCode,
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&reqPayload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"engine": c.Name(),
		}).Warn("DeepL request failed")
		return "", &RemoteError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"engine":      c.Name(),
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Warn("DeepL returned non-OK status")
		return "", &RemoteError{
			Provider:    c.Name(),
			StatusCode:  resp.StatusCode,
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	var dlResp deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&dlResp); err != nil {
		return "", &RemoteError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(dlResp.Translations) == 0 {
		return "", &RemoteError{Provider: c.Name(), Err: fmt.Errorf("empty translations array")}
	}

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Translation completed successfully")

	return dlResp.Translations[0].Text, nil
}
