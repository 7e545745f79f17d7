package chat

import (
	"context"
	"errors"
	"testing"

	"chatbot-backend/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter returns canned outputs in order and records the message
// sequences it was called with.
type scriptedCompleter struct {
	outputs []string
	err     error
	calls   [][]llm.Message
}

func (c *scriptedCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	c.calls = append(c.calls, messages)
	if c.err != nil {
		return "", c.err
	}
	output := c.outputs[0]
	if len(c.outputs) > 1 {
		c.outputs = c.outputs[1:]
	}
	return output, nil
}

func TestGenerateSQL(t *testing.T) {
	completer := &scriptedCompleter{outputs: []string{
		"```json\n{\"query\": \"SELECT COUNT(*) FROM orders\", \"explanation\": \"counts all orders\"}\n```",
	}}

	generation, err := GenerateSQL(context.Background(), completer, "You write SQL.", "How many orders?")
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM orders", generation.Query)
	assert.Equal(t, "counts all orders", generation.Explanation)

	require.Len(t, completer.calls, 1)
	messages := completer.calls[0]
	require.Len(t, messages, 2)
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "You write SQL.")
	assert.Contains(t, messages[0].Content, sqlGenerationSchema)
	assert.Equal(t, llm.RoleUser, messages[1].Role)
	assert.Equal(t, "Generate SQL for: How many orders?", messages[1].Content)
}

func TestGenerateSQLMalformedOutput(t *testing.T) {
	completer := &scriptedCompleter{outputs: []string{"here is your query: SELECT 1"}}

	_, err := GenerateSQL(context.Background(), completer, "You write SQL.", "How many orders?")

	var malformed *MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "sql generation", malformed.Stage)
}

func TestGenerateSQLTransportError(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("connection refused")}

	_, err := GenerateSQL(context.Background(), completer, "You write SQL.", "How many orders?")
	require.Error(t, err)

	var malformed *MalformedOutputError
	assert.False(t, errors.As(err, &malformed))
}
