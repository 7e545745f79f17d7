package chat

import (
	"errors"
	"fmt"
)

// ErrNoPrompt indicates that no active prompt template exists for a stage.
// This is a deployment configuration error; the pipeline aborts rather than
// answering with undefined model behavior.
var ErrNoPrompt = errors.New("no active prompt template")

// MalformedOutputError is returned when model output does not decode into the
// structured schema a stage requires. Raw carries the model text for
// diagnosis; it must be logged, never shown to the end user.
type MalformedOutputError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s produced malformed output: %v", e.Stage, e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}
