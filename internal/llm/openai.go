package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
)

// OpenAIChat wraps the OpenAI client behind the Completer interface.
type OpenAIChat struct {
	client  openai.Client
	model   string  // e.g. "gpt-4o"
	temp    float64 // temperature for generation
	timeout time.Duration
}

// NewOpenAIChat creates a new wrapper. The API key is read from the
// environment by the underlying client.
func NewOpenAIChat(model string, temp float64, timeout time.Duration) *OpenAIChat {
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &OpenAIChat{
		client:  openai.NewClient(),
		model:   model,
		temp:    temp,
		timeout: timeout,
	}
}

func (o *OpenAIChat) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    params,
		Temperature: openai.Float(o.temp),
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai generation returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
