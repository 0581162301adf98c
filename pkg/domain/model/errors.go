package model

import "errors"

// Sentinel errors shared by every layer. Wrap them with goerr.Wrap and match with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	ErrGenerationFormat     = errors.New("generation format error")
	ErrNotFound             = errors.New("not found")
	ErrRateLimited          = errors.New("rate limited")
)

// ErrorKind is a stable, client facing error classification
type ErrorKind string

const (
	ErrorKindInvalidInput         ErrorKind = "invalid_input"
	ErrorKindInvalidParameter     ErrorKind = "invalid_parameter"
	ErrorKindInferenceUnavailable ErrorKind = "inference_unavailable"
	ErrorKindGenerationFormat     ErrorKind = "generation_format"
	ErrorKindNotFound             ErrorKind = "not_found"
	ErrorKindRateLimited          ErrorKind = "rate_limited"
	ErrorKindInternal             ErrorKind = "internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidInput, ErrorKindInvalidInput},
	{ErrInvalidParameter, ErrorKindInvalidParameter},
	{ErrInferenceUnavailable, ErrorKindInferenceUnavailable},
	{ErrGenerationFormat, ErrorKindGenerationFormat},
	{ErrNotFound, ErrorKindNotFound},
	{ErrRateLimited, ErrorKindRateLimited},
}

// KindOf classifies err. Errors not derived from a sentinel above are internal.
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ErrorKindInternal
}

// Context keys for error values
const (
	BadgeIDKey   = "badge_id"
	AttemptsKey  = "attempts"
	RawOutputKey = "raw_output"
)
