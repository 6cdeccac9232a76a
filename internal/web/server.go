package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/app"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the request and stream logger.
func WithLogger(log *zap.Logger) Option {
	return func(h *handlers) { h.log = log }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(h *handlers) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts ...Option) http.Handler {
	h := &handlers{
		svc:       s,
		tpl:       loadTemplates(),
		log:       zap.NewNop(),
		heartbeat: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.Named("web")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/reset", h.reset)
		r.Post("/start", h.start)
		r.Get("/events", h.events)
		r.Get("/ws", h.socket)
	})
	return r
}

func (h *handlers) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
