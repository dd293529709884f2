package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wanderlab/kotoba/pkg/language"
	"github.com/wanderlab/kotoba/pkg/translate"
)

type stubProvider struct {
	fail bool
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	if s.fail {
		return "", &translate.RemoteError{Provider: "stub", StatusCode: 500, Err: context.DeadlineExceeded}
	}
	return "translated:" + text, nil
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newTestServer(provider translate.Translator) *httptest.Server {
	router := translate.NewRouter(translate.RouterConfig{
		Fallback: provider,
		Logger:   quietLogger(),
	})
	srv := NewHTTPServer(Config{
		Translator: router,
		Logger:     quietLogger(),
		Port:       0,
	})
	return httptest.NewServer(srv.Handler())
}

func TestTranslateEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	defer ts.Close()

	body := strings.NewReader(`{"text":"Hello","from":"en","to":"ja"}`)
	resp, err := http.Post(ts.URL+"/api/translate", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got struct {
		Success    bool   `json:"success"`
		Translated string `json:"translated"`
		From       string `json:"from"`
		To         string `json:"to"`
		Engine     string `json:"engine"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Success || got.Translated != "translated:Hello" {
		t.Errorf("unexpected body: %+v", got)
	}
	if got.From != "en" || got.To != "ja" || got.Engine != "stub" {
		t.Errorf("unexpected metadata: %+v", got)
	}
}

func TestTranslateEndpointResolvesAliases(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	defer ts.Close()

	body := strings.NewReader(`{"text":"你好","from":"中文","to":"日文"}`)
	resp, err := http.Post(ts.URL+"/api/translate", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.From != "zh-TW" || got.To != "ja" {
		t.Errorf("aliases resolved to %s -> %s", got.From, got.To)
	}
}

func TestTranslateEndpointValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	t.Cleanup(ts.Close)

	cases := []struct {
		name string
		body string
	}{
		{"missing text", `{"from":"en","to":"ja"}`},
		{"unknown source", `{"text":"hi","from":"xx","to":"ja"}`},
		{"unknown target", `{"text":"hi","from":"en","to":"xx"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			resp, err := http.Post(ts.URL+"/api/translate", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestTranslateEndpointExhaustedChain(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{fail: true})
	defer ts.Close()

	body := strings.NewReader(`{"text":"Hello","from":"en","to":"ja"}`)
	resp, err := http.Post(ts.URL+"/api/translate", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var got struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Success || got.Error != "translation failed" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestTranslateEndpointMethodNotAllowed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/translate")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/translate/languages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Success   bool `json:"success"`
		Languages []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"languages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Success || len(got.Languages) != 20 {
		t.Fatalf("expected 20 languages, got %d", len(got.Languages))
	}
	if got.Languages[0].Code != "zh-TW" {
		t.Errorf("first catalog entry = %q, want zh-TW", got.Languages[0].Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["status"] != "healthy" {
		t.Errorf("unexpected health body: %v", got)
	}
}
