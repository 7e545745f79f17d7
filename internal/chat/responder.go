package chat

import (
	"context"
	"fmt"

	"chatbot-backend/internal/database"
	"chatbot-backend/internal/llm"
)

// ChatAnswer is the structured object the response generation stage expects
// from the model.
type ChatAnswer struct {
	Response string `json:"response"`
}

const chatAnswerSchema = `{"response": "string"}`

// GenerateResponse asks the model to turn a serialized query outcome into a
// natural-language answer. Prior turns are replayed verbatim, oldest first,
// between the system instruction and the final user message.
func GenerateResponse(ctx context.Context, completer llm.Completer, promptText, question, serializedOutcome string, history []database.ChatMessage) (ChatAnswer, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf("%s\n\nRespond in JSON format: %s", promptText, chatAnswerSchema),
	})

	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == database.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("User asked: %s\nSQL Results: %s\nGenerate response:", question, serializedOutcome),
	})

	raw, err := completer.Complete(ctx, messages)
	if err != nil {
		return ChatAnswer{}, fmt.Errorf("response generation call failed: %w", err)
	}

	var answer ChatAnswer
	if err := decodeStructured("response generation", raw, &answer); err != nil {
		return ChatAnswer{}, err
	}
	return answer, nil
}
