package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// eventWriter writes server-sent events, flushing after each one
type eventWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newEventWriter(w http.ResponseWriter) *eventWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &eventWriter{w: w, rc: http.NewResponseController(w)}
}

// Send writes ev as one "event: <type>" frame with a JSON data line
func (e *eventWriter) Send(ev *model.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal stream event", goerr.V("type", ev.Type))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\ndata: %s\n\n", ev.Type, data)
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return goerr.Wrap(err, "failed to write stream event")
	}
	if err := e.rc.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush stream event")
	}
	return nil
}
