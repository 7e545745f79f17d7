package chat

import (
	"encoding/json"
	"fmt"

	"chatbot-backend/internal/query"
)

// maxRowsForPrompt bounds how many result rows are fed back into the model.
// The executor's row cap bounds execution cost; this tighter cap bounds the
// text volume re-entering a limited context window.
const maxRowsForPrompt = 10

// serializeOutcome shrinks a query outcome for re-ingestion by the response
// stage. Success flag, row count and column list survive in full; the row
// payload is truncated. Failed outcomes forward only the error message.
func serializeOutcome(outcome query.Outcome) (string, error) {
	bounded := outcome
	if !outcome.Success {
		bounded.Rows = []map[string]any{}
	} else if len(outcome.Rows) > maxRowsForPrompt {
		bounded.Rows = outcome.Rows[:maxRowsForPrompt]
	}

	payload, err := json.Marshal(bounded)
	if err != nil {
		return "", fmt.Errorf("error serializing query outcome: %w", err)
	}
	return string(payload), nil
}
