package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/translate"
)

// HTTPServer exposes the bot webhook, the REST translation API, stored
// audio clips, health and Prometheus metrics on a single port.
type HTTPServer struct {
	translator *translate.Router
	webhook    *LineWebhook
	audioDir   string
	logger     *logrus.Logger
	port       int
}

// Config wires an HTTPServer. Webhook may be nil when the messaging
// channel credentials are absent; the REST API still works.
type Config struct {
	Translator *translate.Router
	Webhook    *LineWebhook
	AudioDir   string
	Logger     *logrus.Logger
	Port       int
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(cfg Config) *HTTPServer {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &HTTPServer{
		translator: cfg.Translator,
		webhook:    cfg.Webhook,
		audioDir:   cfg.AudioDir,
		logger:     cfg.Logger,
		port:       cfg.Port,
	}
}

// Handler builds the route table. Exposed separately from Start so the
// caller can run its own http.Server for graceful shutdown.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// REST translation API
	mux.HandleFunc("/api/translate", s.handleTranslate)
	mux.HandleFunc("/api/translate/languages", s.handleLanguages)

	// Messaging platform webhook
	if s.webhook != nil {
		mux.HandleFunc("/webhook/line", s.webhook.Handle)
	}

	// Synthesized audio clips
	if s.audioDir != "" {
		mux.Handle("/audio/", http.StripPrefix("/audio/",
			http.FileServer(http.Dir(s.audioDir))))
	}

	// Health check endpoint
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// Start starts the HTTP server.
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.WithFields(logrus.Fields{
		"port":            s.port,
		"webhook_enabled": s.webhook != nil,
	}).Info("Starting HTTP server")

	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a health check endpoint.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}
