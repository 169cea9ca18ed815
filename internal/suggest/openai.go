package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAICompleter completes prompts with the OpenAI chat completions API or a compatible endpoint.
type OpenAICompleter struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAICompleter creates a completer. Empty baseURL and model select the OpenAI defaults.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// The fallback chain moves on instead of retrying.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClient(opts...), model: chatModel}
}

// Complete implements [Completer].
func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai chat completion without choices")
	}
	return completion.Choices[0].Message.Content, nil
}
