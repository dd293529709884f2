package translate

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Token counting uses the cl100k_base BPE for a vendor-neutral size
// estimate of translated output. The encoding is loaded once; if it
// cannot be loaded, estimates are reported as zero rather than failing
// translations.
var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
)

// CountTokens estimates the token count of text. Returns 0 when the
// tokenizer is unavailable or the text is empty.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	tokenizerOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tokenizer = enc
		}
	})
	if tokenizer == nil {
		return 0
	}
	return len(tokenizer.Encode(text, nil, nil))
}
