// Package tokens counts tokens the way the target model will. The
// primary counter wraps tiktoken; when the encoding cannot be loaded
// (offline builds, unknown models) a deterministic estimator stands in
// so caching and budgets stay reproducible.
package tokens

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding matches the GPT-4 class of models.
const DefaultEncoding = "cl100k_base"

// Counter approximates the target model's tokenization. Implementations
// must be deterministic: the same text always counts the same.
type Counter interface {
	Count(text string) int
	Name() string
}

// Tiktoken counts with a real BPE encoding.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTiktoken loads the named encoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %q: %w", encoding, err)
	}
	return &Tiktoken{encoding: enc, name: encoding}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Name returns the encoding name.
func (t *Tiktoken) Name() string { return t.name }

// Estimator is the fallback counter: one token per four runes, matching
// the usual English-text approximation. Deterministic by construction.
type Estimator struct{}

// Count estimates the number of tokens in text.
func (Estimator) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	return (runes + 3) / 4
}

// Name identifies the estimator.
func (Estimator) Name() string { return "estimator" }

// NewCounter returns a tiktoken counter for the encoding, falling back
// to the estimator when the encoding cannot be loaded.
func NewCounter(encoding string) Counter {
	if tk, err := NewTiktoken(encoding); err == nil {
		return tk
	}
	return Estimator{}
}
