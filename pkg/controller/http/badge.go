package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
	"github.com/secmon-lab/badgeforge/pkg/utils/errutil"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"github.com/secmon-lab/badgeforge/pkg/utils/safe"
)

type badgeResponse struct {
	Badge      *model.Badge          `json:"badge"`
	Parameters model.Parameters      `json:"parameters"`
	Icon       *model.IconSuggestion `json:"icon,omitempty"`
	Stages     []model.Stage         `json:"stages,omitempty"`
}

func newBadgeResponse(result *model.BadgeResult) *badgeResponse {
	return &badgeResponse{
		Badge:      result.Badge,
		Parameters: result.Badge.Parameters,
		Icon:       result.Icon,
		Stages:     result.Stages,
	}
}

type historyResponse struct {
	History    []*model.Badge `json:"history"`
	TotalCount int            `json:"total_count"`
}

type metadataRequest struct {
	Fields map[string]any `json:"fields"`
}

type iconSuggestRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Inference *model.InferenceStatus `json:"inference,omitempty"`
}

func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	result, err := s.uc.Badge.Generate(r.Context(), &req)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, newBadgeResponse(result))
}

func (s *Server) regenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RegenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	result, err := s.uc.Badge.Regenerate(r.Context(), &req)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, newBadgeResponse(result))
}

func (s *Server) regenerateFieldHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RegenerateFieldRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	result, err := s.uc.Badge.RegenerateField(r.Context(), &req)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, newBadgeResponse(result))
}

func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	s.serveStream(w, r, &req, func(ctx context.Context) iter.Seq[*model.StreamEvent] {
		return s.uc.Badge.GenerateStream(ctx, &req)
	})
}

func (s *Server) regenerateStreamHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RegenerateRequest
	s.serveStream(w, r, &req, func(ctx context.Context) iter.Seq[*model.StreamEvent] {
		return s.uc.Badge.RegenerateStream(ctx, &req)
	})
}

// serveStream decodes the body into req and relays events as server-sent events.
// Every failure, including a malformed request, is reported as an error event.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request, req any, events func(context.Context) iter.Seq[*model.StreamEvent]) {
	ctx := r.Context()
	decodeErr := s.decodeJSON(w, r, req)

	sse := newEventWriter(w)
	if decodeErr != nil {
		logging.From(ctx).Warn("badge stream rejected", "error", decodeErr)
		if err := sse.Send(&model.StreamEvent{
			Type:  model.StreamEventError,
			Error: model.NewErrorPayload(decodeErr),
		}); err != nil {
			logging.From(ctx).Debug("badge stream error event not delivered", "error", err.Error())
		}
		return
	}

	for ev := range events(ctx) {
		if ev.Type == model.StreamEventError {
			logging.From(ctx).Warn("badge stream failed", "kind", ev.Error.Kind, "error", ev.Error.Message)
		}
		if err := sse.Send(ev); err != nil {
			// The client is gone; stopping here cancels generation
			logging.From(ctx).Debug("badge stream aborted", "error", err.Error())
			return
		}
	}
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	badges, err := s.uc.History.List(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, &historyResponse{
		History:    badges,
		TotalCount: len(badges),
	})
}

func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.History.Clear(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	id := model.BadgeID(chi.URLParam(r, "id"))

	badge, err := s.uc.History.Get(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, badge)
}

func (s *Server) metadataHandler(w http.ResponseWriter, r *http.Request) {
	id := model.BadgeID(chi.URLParam(r, "id"))

	var req metadataRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	badge, err := s.uc.History.AppendMetadata(r.Context(), id, req.Fields)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, badge)
}

func (s *Server) stylesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, usecase.Styles())
}

func (s *Server) suggestIconsHandler(w http.ResponseWriter, r *http.Request) {
	var req iconSuggestRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	suggestion, err := s.uc.Icon.Suggest(req.Text, req.TopK)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, 0)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, suggestion)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := &healthResponse{Status: "ok"}
	if s.health != nil {
		resp.Inference = s.health.Status()
		if resp.Inference != nil && !resp.Inference.Available {
			resp.Status = "degraded"
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// decodeJSON reads a size limited JSON body into v. An empty body leaves v untouched.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return goerr.Wrap(model.ErrInvalidInput, "malformed request body",
			goerr.V("cause", err.Error()))
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
