package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
	"github.com/secmon-lab/badgeforge/pkg/utils/errutil"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"golang.org/x/time/rate"
)

// HealthReporter provides the last known inference backend status
type HealthReporter interface {
	Status() *model.InferenceStatus
}

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	health       HealthReporter
	limiter      *rate.Limiter
	maxBodyBytes int64
}

type Options func(*Server)

func WithHealthReporter(h HealthReporter) Options {
	return func(s *Server) {
		s.health = h
	}
}

// WithRateLimit limits generation requests to rps per second with the given burst. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Options {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

func WithMaxBodyBytes(n int64) Options {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		uc:           uc,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/badges", func(r chi.Router) {
			// Generation endpoints hit the inference backend and are rate limited
			r.Group(func(r chi.Router) {
				r.Use(rateLimit(s.limiter))
				r.Post("/", s.generateHandler)
				r.Post("/stream", s.streamHandler)
				r.Post("/regenerate", s.regenerateHandler)
				r.Post("/regenerate/stream", s.regenerateStreamHandler)
				r.Post("/regenerate-field", s.regenerateFieldHandler)
			})

			r.Get("/", s.listHandler)
			r.Delete("/", s.clearHandler)
			r.Get("/{id}", s.getHandler)
			r.Post("/{id}/metadata", s.metadataHandler)
		})

		r.Get("/styles", s.stylesHandler)
		r.Post("/icons/suggest", s.suggestIconsHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// handlers log through logging.From and inherit the request ID
		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// rateLimit rejects requests once the token bucket is empty. A nil limiter lets everything through.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(model.ErrRateLimited, "too many generation requests"), 0)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
