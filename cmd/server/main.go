package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/server"
	"github.com/wanderlab/kotoba/pkg/service"
	"github.com/wanderlab/kotoba/pkg/session"
	"github.com/wanderlab/kotoba/pkg/speech"
	"github.com/wanderlab/kotoba/pkg/translate"
)

var (
	// Server configuration flags
	port     = flag.Int("port", 8080, "HTTP server port")
	baseURL  = flag.String("base-url", "", "Public base URL for audio clip links (defaults to BASE_URL env)")
	audioDir = flag.String("audio-dir", "/tmp/kotoba-audio", "Directory for synthesized audio clips")

	// Logging configuration
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Secrets come from the environment, never from flags.
	deeplKey := os.Getenv("DEEPL_API_KEY")
	googleKey := os.Getenv("GOOGLE_TRANSLATE_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	lineSecret := os.Getenv("LINE_CHANNEL_SECRET")
	lineToken := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	publicURL := *baseURL
	if publicURL == "" {
		publicURL = os.Getenv("BASE_URL")
	}

	logger.WithFields(logrus.Fields{
		"port":              *port,
		"base_url":          publicURL,
		"audio_dir":         *audioDir,
		"deepl_configured":  deeplKey != "",
		"google_configured": googleKey != "",
		"openai_configured": openaiKey != "",
		"line_configured":   lineSecret != "" && lineToken != "",
		"log_level":         level.String(),
	}).Info("Starting Kotoba translation bot server")

	// Translation provider chain; unconfigured providers stay out of
	// the candidate order entirely.
	routerCfg := translate.RouterConfig{
		Fallback: translate.NewMyMemoryClient(logger),
		Logger:   logger,
	}
	if deeplKey != "" {
		routerCfg.Specialist = translate.NewDeepLClient(deeplKey, logger)
	}
	if googleKey != "" {
		routerCfg.General = translate.NewGoogleClient(googleKey, logger)
	}
	router := translate.NewRouter(routerCfg)

	// Speech stack, optional without an API key
	var transcriber speech.Transcriber
	var synthesizer speech.Synthesizer

	artifacts, err := speech.NewArtifactStore(*audioDir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create audio artifact store")
	}

	if openaiKey != "" {
		transcriber = speech.NewWhisperClient(openaiKey, logger)
		synthesizer = speech.NewTTSClient(openaiKey, artifacts, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, voice features disabled")
	}

	// Periodic cleanup of expired audio clips
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go artifacts.RunCleanup(cleanupCtx, speech.DefaultCleanupInterval)

	// Conversation engine and per-user dispatcher
	sessions := session.NewStore(logger)
	engine := service.NewEngine(service.EngineConfig{
		Sessions:    sessions,
		Translator:  router,
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		BaseURL:     publicURL,
		Logger:      logger,
	})
	dispatcher := service.NewDispatcher(logger)
	defer dispatcher.Stop()

	// Messaging webhook, optional without channel credentials
	var webhook *server.LineWebhook
	if lineSecret != "" && lineToken != "" {
		webhook, err = server.NewLineWebhook(server.WebhookConfig{
			ChannelSecret: lineSecret,
			ChannelToken:  lineToken,
			Engine:        engine,
			Dispatcher:    dispatcher,
			Logger:        logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create webhook receiver")
		}
	} else {
		logger.Warn("LINE channel credentials not set, webhook disabled")
	}

	httpServer := server.NewHTTPServer(server.Config{
		Translator: router,
		Webhook:    webhook,
		AudioDir:   artifacts.Dir(),
		Logger:     logger,
		Port:       *port,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: httpServer.Handler(),
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port": *port,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.WithError(err).Fatal("Server error")
	case sig := <-sigChan:
		logger.WithFields(logrus.Fields{
			"signal": sig.String(),
		}).Info("Received signal, shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Graceful shutdown failed, closing")
			srv.Close()
		} else {
			logger.Info("Server stopped gracefully")
		}
	}
}
