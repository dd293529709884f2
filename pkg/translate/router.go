package translate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
)

// Router sequences translation providers for a language pair and
// degrades gracefully across failures. It is stateless and safe for
// concurrent use; the fallback chain is the only retry mechanism and is
// bounded by the number of configured providers.
//
// Candidate order for a pair:
//  1. The European specialist (DeepL), only when it is configured,
//     both ends of the pair are in the fixed European subset, and it
//     declares capability for both codes.
//  2. The general-purpose provider (Google), when configured.
//  3. The free fallback (MyMemory), always.
type Router struct {
	specialist Translator // may be nil
	general    Translator // may be nil
	fallback   Translator
	logger     *logrus.Logger
}

// RouterConfig holds the providers available to a Router. Specialist
// and General are optional; Fallback is required and assumed to need no
// credential.
type RouterConfig struct {
	Specialist Translator
	General    Translator
	Fallback   Translator
	Logger     *logrus.Logger
}

// NewRouter creates a Router from the configured providers.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Router{
		specialist: cfg.Specialist,
		general:    cfg.General,
		fallback:   cfg.Fallback,
		logger:     cfg.Logger,
	}
}

// candidates builds the ordered provider list for a pair. Capability
// exclusion for the specialist is evaluated per call; configuration is
// fixed at construction.
func (r *Router) candidates(from, to language.Code) []Translator {
	var chain []Translator

	if r.specialist != nil && language.IsEuropean(from) && language.IsEuropean(to) {
		_, fromOK := language.DeepLCode(from)
		_, toOK := language.DeepLCode(to)
		if fromOK && toOK {
			chain = append(chain, r.specialist)
		}
	}
	if r.general != nil {
		chain = append(chain, r.general)
	}
	chain = append(chain, r.fallback)

	return chain
}

// Translate offers the identical (text, from, to) to each candidate in
// order. The first success short-circuits the chain. Every failure,
// including an unsupported pair, is logged and the next candidate is
// tried; when all candidates fail the router fails with
// *ExhaustedError carrying the last underlying error.
func (r *Router) Translate(ctx context.Context, text string, from, to language.Code) (Result, error) {
	chain := r.candidates(from, to)

	var lastErr error
	for _, candidate := range chain {
		startTime := time.Now()
		translated, err := candidate.Translate(ctx, text, from, to)
		recordAttempt(candidate.Name(), time.Since(startTime), err)

		if err == nil {
			tokens := CountTokens(translated)
			recordTokens(candidate.Name(), tokens)

			r.logger.WithFields(logrus.Fields{
				"engine":      candidate.Name(),
				"source_lang": from,
				"target_lang": to,
				"duration_ms": time.Since(startTime).Milliseconds(),
			}).Debug("Router translation succeeded")

			return Result{Text: translated, Engine: candidate.Name(), Tokens: tokens}, nil
		}

		lastErr = err
		recordFallback(candidate.Name())
		r.logger.WithError(err).WithFields(logrus.Fields{
			"engine":      candidate.Name(),
			"source_lang": from,
			"target_lang": to,
		}).Info("Translation engine failed, trying next candidate")
	}

	recordExhausted()
	r.logger.WithError(lastErr).WithFields(logrus.Fields{
		"source_lang": from,
		"target_lang": to,
		"candidates":  len(chain),
	}).Error("All translation engines exhausted")

	return Result{}, &ExhaustedError{Last: lastErr}
}
