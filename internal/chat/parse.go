package chat

import (
	"encoding/json"
	"strings"
)

// stripCodeFences removes a leading and trailing markdown fence line from
// model output. Models often wrap JSON payloads in ``` or ```json markers
// even when told not to; the payload between the markers is returned
// unchanged.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	// Drop the opening marker line (which may carry a language tag).
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// decodeStructured strips fencing then decodes the payload into dest.
// Decode failure becomes a typed MalformedOutputError for the given stage.
func decodeStructured(stage, raw string, dest any) error {
	payload := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return &MalformedOutputError{Stage: stage, Raw: raw, Err: err}
	}
	return nil
}
