package translate

import (
	"errors"
	"fmt"

	"github.com/wanderlab/kotoba/pkg/language"
)

// ErrProviderUnavailable means the provider cannot be used at all,
// typically because its API credential is absent. This is expected in
// partial deployments and triggers fallback without severe logging.
var ErrProviderUnavailable = errors.New("translation provider unavailable")

// UnsupportedPairError means a provider's capability flags exclude one
// end of the requested language pair. It triggers fallback.
type UnsupportedPairError struct {
	Provider string
	From     language.Code
	To       language.Code
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("%s does not support %s -> %s", e.Provider, e.From, e.To)
}

// RemoteError means the backing service returned a non-success response
// or the call timed out. RateLimited marks throttling responses; the
// router treats both identically.
type RemoteError struct {
	Provider    string
	StatusCode  int
	RateLimited bool
	Err         error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ExhaustedError is the router's terminal failure: every configured
// provider in the chain failed. Last carries the final underlying error
// for diagnostics; it never reaches end users verbatim.
type ExhaustedError struct {
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all translation providers exhausted: %v", e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
