package llm

import "context"

const (
	RoleSystem    string = "system"
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Completer is the single call shape the pipeline needs from a model
// provider. Authentication and transport live behind the implementation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
