package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wanderlab/kotoba/pkg/language"
)

func TestDeepLTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret:fx" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req deeplRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SourceLang != "EN" || req.TargetLang != "FR" {
			t.Errorf("unexpected pair %s -> %s", req.SourceLang, req.TargetLang)
		}
		json.NewEncoder(w).Encode(deeplResponse{
			Translations: []struct {
				Text string `json:"text"`
			}{{Text: "Bonjour"}},
		})
	}))
	defer srv.Close()

	client := NewDeepLClient("secret:fx", quietLogger())
	client.baseURL = srv.URL

	got, err := client.Translate(context.Background(), "Hello", language.EN, language.FR)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("expected Bonjour, got %q", got)
	}
}

func TestDeepLUnsupportedPair(t *testing.T) {
	t.Parallel()

	client := NewDeepLClient("secret", quietLogger())

	_, err := client.Translate(context.Background(), "สวัสดี", language.TH, language.EN)
	var unsupported *UnsupportedPairError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedPairError, got %T: %v", err, err)
	}
}

func TestDeepLMissingCredential(t *testing.T) {
	t.Parallel()

	client := NewDeepLClient("", quietLogger())

	_, err := client.Translate(context.Background(), "Hello", language.EN, language.FR)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestDeepLRateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewDeepLClient("secret", quietLogger())
	client.baseURL = srv.URL

	_, err := client.Translate(context.Background(), "Hello", language.EN, language.FR)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
	if !remote.RateLimited {
		t.Error("429 should be flagged as rate limited")
	}
}

func TestGoogleTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Source != "en" || req.Target != "zh-TW" || req.Key != "gkey" {
			t.Errorf("unexpected request: %+v", req)
		}
		var resp googleResponse
		resp.Data.Translations = []struct {
			TranslatedText string `json:"translatedText"`
		}{{TranslatedText: "你好"}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewGoogleClient("gkey", quietLogger())
	client.baseURL = srv.URL

	got, err := client.Translate(context.Background(), "Hello", language.EN, language.ZhTW)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "你好" {
		t.Errorf("expected 你好, got %q", got)
	}
}

func TestGoogleMissingCredential(t *testing.T) {
	t.Parallel()

	client := NewGoogleClient("", quietLogger())

	_, err := client.Translate(context.Background(), "Hello", language.EN, language.JA)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMyMemoryTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "en|ja" {
			t.Errorf("unexpected langpair %q", got)
		}
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"こんにちは"}}`))
	}))
	defer srv.Close()

	client := NewMyMemoryClient(quietLogger())
	client.baseURL = srv.URL

	got, err := client.Translate(context.Background(), "Hello", language.EN, language.JA)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "こんにちは" {
		t.Errorf("expected こんにちは, got %q", got)
	}
}

func TestMyMemoryApplicationFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":403,"responseDetails":"INVALID LANGUAGE PAIR"}`))
	}))
	defer srv.Close()

	client := NewMyMemoryClient(quietLogger())
	client.baseURL = srv.URL

	_, err := client.Translate(context.Background(), "Hello", language.EN, language.JA)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
	if remote.StatusCode != 403 {
		t.Errorf("expected embedded status 403, got %d", remote.StatusCode)
	}
}
