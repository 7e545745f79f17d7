package chat

import (
	"context"
	"fmt"

	"chatbot-backend/internal/llm"
)

// SQLGeneration is the structured object the SQL generation stage expects
// from the model.
type SQLGeneration struct {
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
}

// sqlGenerationSchema is advertised to the model verbatim so it can conform.
const sqlGenerationSchema = `{"query": "string", "explanation": "string"}`

// GenerateSQL asks the model to translate a business question into SQL using
// the given prompt template. Exactly one model call is made; retry policy
// belongs to the caller.
func GenerateSQL(ctx context.Context, completer llm.Completer, promptText, question string) (SQLGeneration, error) {
	messages := []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: fmt.Sprintf("%s\n\nRespond in JSON format: %s", promptText, sqlGenerationSchema),
		},
		{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Generate SQL for: %s", question),
		},
	}

	raw, err := completer.Complete(ctx, messages)
	if err != nil {
		return SQLGeneration{}, fmt.Errorf("sql generation call failed: %w", err)
	}

	var generation SQLGeneration
	if err := decodeStructured("sql generation", raw, &generation); err != nil {
		return SQLGeneration{}, err
	}
	return generation, nil
}
