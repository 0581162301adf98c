package model

// StreamEventType is the kind of event emitted during streamed generation
type StreamEventType string

const (
	StreamEventToken StreamEventType = "token"
	StreamEventFinal StreamEventType = "final"
	StreamEventError StreamEventType = "error"
)

// ErrorPayload is the client facing description of a failure
type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewErrorPayload converts err into its client facing form
func NewErrorPayload(err error) *ErrorPayload {
	return &ErrorPayload{
		Kind:    KindOf(err),
		Message: err.Error(),
	}
}

// StreamEvent is a single event of a generation stream. Error events terminate the stream.
type StreamEvent struct {
	Type        StreamEventType `json:"type"`
	Attempt     int             `json:"attempt,omitempty"`
	Delta       string          `json:"delta,omitempty"`
	Accumulated string          `json:"accumulated,omitempty"`
	Done        bool            `json:"done"`
	Result      *BadgeResult    `json:"result,omitempty"`
	Error       *ErrorPayload   `json:"error,omitempty"`
}
