package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *zap.Logger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", boardData{ID: gs.ID, State: gs, Error: errMsg})
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	gs, err := h.svc.CreateGame(r.Form.Get("p1"), r.Form.Get("p2"))
	if err != nil {
		h.log.Error("failed to create game", zap.Error(err))
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", boardData{ID: gs.ID, State: *gs}))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	cell, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("cell")))
	if err != nil {
		// Not a cell number: nothing to play, show the board as it is.
		gs, ok := h.svc.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.writeBoard(w, *gs, "")
		return
	}
	gs, err := h.svc.Play(id, cell)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, reasonText(gs.Reason))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Reset(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, "")
}

func (h *handlers) start(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	gs, err := h.svc.Start(chi.URLParam(r, "id"), r.Form.Get("p1"), r.Form.Get("p2"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, "")
}

// reasonText turns an ignored move into a short hint for the players.
func reasonText(reason error) string {
	switch {
	case reason == nil:
		return ""
	case errors.Is(reason, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(reason, domain.ErrGameOver):
		return "Game is over, press Reset"
	default:
		return ""
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	log := h.log.With(zap.String("game", id))
	log.Debug("sse subscriber connected")
	defer log.Debug("sse subscriber gone")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", h.renderBoard(gs, ""))
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
