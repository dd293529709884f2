package translate

import (
	"context"

	"github.com/wanderlab/kotoba/pkg/language"
)

// Translator is the uniform adapter contract over one external machine
// translation backend. Adapters are stateless: all they do is map the
// request onto the vendor wire format and classify the outcome into the
// shared error taxonomy. Retry and fallback belong to the Router, never
// to an adapter.
type Translator interface {
	// Name identifies the backing engine ("deepl", "google",
	// "mymemory") for diagnostics and metrics.
	Name() string

	// Translate translates text between two canonical language codes.
	// Failures are one of ErrProviderUnavailable, *UnsupportedPairError
	// or *RemoteError.
	Translate(ctx context.Context, text string, from, to language.Code) (string, error)
}

// Result is a successful translation outcome.
type Result struct {
	// Text is the translated text.
	Text string
	// Engine names the provider that produced it.
	Engine string
	// Tokens is a tokenizer-based size estimate of the translated text,
	// for accounting. Zero when the tokenizer is unavailable.
	Tokens int
}
