package usecase

import "github.com/m-mizutani/goerr/v2"

// errStreamStopped ends a pipeline whose stream consumer went away
var errStreamStopped = goerr.New("stream consumer stopped")

// Context keys for error values
const (
	DimensionKey = "dimension"
	AttemptKey   = "attempt"
)
