package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"repolens/internal/errors"
)

const (
	// DefaultModel is used when the config names none.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds one completion call.
	DefaultTimeout = 60 * time.Second

	maxRetries  = 3
	baseBackoff = 2 * time.Second
	maxBackoff  = 32 * time.Second
)

// OpenAI is the production Client backed by the OpenAI chat API.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI builds a client for the given key and model.
func NewOpenAI(apiKey, model string, timeout time.Duration) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New(errors.LLMUnavailable, "OPENAI_API_KEY is not set", nil)
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAI{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}, nil
}

// ModelName returns the configured model.
func (c *OpenAI) ModelName() string { return c.model }

// Complete runs one chat completion, retrying rate-limit responses with
// exponential backoff.
func (c *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, turn := range req.History {
		if turn.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return Response{}, errors.New(errors.LLMUnavailable, "completion cancelled", ctx.Err())
			case <-time.After(backoff):
			}
		}

		completion, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err
			if isRateLimit(err) {
				continue
			}
			return Response{}, errors.New(errors.LLMUnavailable, "completion failed", err)
		}

		if len(completion.Choices) == 0 {
			return Response{}, errors.New(errors.LLMUnavailable, "no completion choices returned", nil)
		}
		return Response{
			Content:    completion.Choices[0].Message.Content,
			TokensUsed: int(completion.Usage.TotalTokens),
			Model:      string(completion.Model),
		}, nil
	}

	return Response{}, errors.New(errors.LLMUnavailable,
		fmt.Sprintf("rate limited after %d retries", maxRetries), lastErr)
}

func isRateLimit(err error) bool {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

var _ Client = (*OpenAI)(nil)
