// Package tokenizer wraps tiktoken for token counting against prompt budgets.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// encoding is the BPE encoding used for counting. cl100k_base matches the
// GPT-4 family closely enough for budget decisions.
const encoding = "cl100k_base"

// Tokenizer counts tokens for budget enforcement.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New creates a tokenizer using the cl100k_base encoding.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %s: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}
