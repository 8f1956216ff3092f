// Package llm talks to the completion backend that answers questions
// over the assembled context document.
package llm

import (
	"context"
)

// Turn is one prior exchange carried into the prompt.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request carries everything needed for one completion.
type Request struct {
	System    string
	History   []Turn
	Prompt    string
	MaxTokens int
}

// Response is the model's answer.
type Response struct {
	Content    string
	TokensUsed int
	Model      string
}

// Client generates completions. The OpenAI adapter is the production
// implementation; tests substitute fakes.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	ModelName() string
}
