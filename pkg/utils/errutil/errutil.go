package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
)

// Handle logs the error with a message, including goerr values and stack, and returns it unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	log(ctx, slog.LevelError, msg, err)
	return err
}

func log(ctx context.Context, level slog.Level, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err.Error(), "kind", model.KindOf(err))

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs, "values", ge.Values())
		if level >= slog.LevelError {
			attrs = append(attrs, "stack", ge.Stacks())
		}
	}
	logging.From(ctx).Log(ctx, level, msg, attrs...)
}

// HTTPStatus maps an error to the status code reported to clients
func HTTPStatus(err error) int {
	switch model.KindOf(err) {
	case model.ErrorKindInvalidInput, model.ErrorKindInvalidParameter:
		return http.StatusBadRequest
	case model.ErrorKindNotFound:
		return http.StatusNotFound
	case model.ErrorKindRateLimited:
		return http.StatusTooManyRequests
	case model.ErrorKindInferenceUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrorKindGenerationFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error *model.ErrorPayload `json:"error"`
}

// HandleHTTP logs the error and writes a JSON error body. A zero statusCode is derived from the error.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}
	if statusCode == 0 {
		statusCode = HTTPStatus(err)
	}

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log(ctx, level, "HTTP error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: model.NewErrorPayload(err)})
}
