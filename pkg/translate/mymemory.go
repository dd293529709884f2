package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

const (
	// DefaultMyMemoryURL is the base URL for the MyMemory public API.
	DefaultMyMemoryURL = "https://api.mymemory.translated.net"
	// DefaultMyMemoryTimeout is the default timeout for HTTP requests.
	DefaultMyMemoryTimeout = 15 * time.Second
)

// MyMemoryClient implements the Translator interface using the free
// MyMemory API. It needs no credential, which makes it the terminal
// fallback in the chain: it is always configured.
type MyMemoryClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewMyMemoryClient creates a new MyMemory client.
func NewMyMemoryClient(logger *logrus.Logger) *MyMemoryClient {
	if logger == nil {
		logger = logrus.New()
	}

	return &MyMemoryClient{
		baseURL: DefaultMyMemoryURL,
		httpClient: &http.Client{
			Timeout: DefaultMyMemoryTimeout,
		},
		logger: logger,
	}
}

// Name identifies this engine.
func (c *MyMemoryClient) Name() string { return "mymemory" }

// myMemoryResponse represents a MyMemory API response body. The API
// reports transport-level success with HTTP 200 and application-level
// status in responseStatus.
type myMemoryResponse struct {
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate translates text via MyMemory.
func (c *MyMemoryClient) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	fromCode := language.GoogleCode(from)
	toCode := language.GoogleCode(to)

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"text_length": len(text),
	}).Debug("Translating text with MyMemory")

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", fromCode+"|"+toCode)
	reqURL := c.baseURL + "/get?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"engine": c.Name(),
		}).Warn("MyMemory request failed")
		return "", &RemoteError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"engine":      c.Name(),
			"status_code": resp.StatusCode,
		}).Warn("MyMemory returned non-OK status")
		return "", &RemoteError{
			Provider:    c.Name(),
			StatusCode:  resp.StatusCode,
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	var mmResp myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&mmResp); err != nil {
		return "", &RemoteError{Provider: c.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	// MyMemory reports quota exhaustion and invalid pairs inside the
	// JSON body with responseStatus != 200.
	if status, _ := mmResp.ResponseStatus.Int64(); status != 200 {
		c.logger.WithFields(logrus.Fields{
			"engine":          c.Name(),
			"response_status": mmResp.ResponseStatus.String(),
			"details":         mmResp.ResponseDetails,
		}).Warn("MyMemory reported application-level failure")
		return "", &RemoteError{
			Provider:    c.Name(),
			StatusCode:  int(status),
			RateLimited: status == 429,
			Err:         fmt.Errorf("%s", mmResp.ResponseDetails),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"engine":      c.Name(),
		"source_lang": fromCode,
		"target_lang": toCode,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Translation completed successfully")

	return mmResp.ResponseData.TranslatedText, nil
}
