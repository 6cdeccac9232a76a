package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// stateMessage is the JSON form of a game pushed over the socket.
type stateMessage struct {
	ID     string   `json:"id"`
	Board  []string `json:"board"`
	Phase  string   `json:"phase"`
	Active string   `json:"active,omitempty"`
	Winner string   `json:"winner,omitempty"`
	Line   []int    `json:"line,omitempty"`
	Text   string   `json:"text"`
}

// actionMessage is what a socket client sends to drive the game.
type actionMessage struct {
	Action string `json:"action"`
	Cell   *int   `json:"cell,omitempty"`
	P1     string `json:"p1,omitempty"`
	P2     string `json:"p2,omitempty"`
}

func newStateMessage(gs app.GameState) stateMessage {
	msg := stateMessage{
		ID:    gs.ID,
		Board: make([]string, domain.Size),
		Phase: gs.Status.Phase.String(),
		Line:  gs.Line,
		Text:  gs.Status.Text(),
	}
	for i, c := range gs.Board {
		msg.Board[i] = c.String()
	}
	if gs.Status.Phase == domain.Playing {
		msg.Active = gs.Status.ActivePlayer().Name
	}
	if w, ok := gs.Status.Winner(); ok {
		msg.Winner = w.Name
	}
	return msg
}

// socket streams the game as JSON and accepts play, reset and start actions.
// Only this goroutine writes to the connection.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	// Subscribe before reading the current state so no transition falls
	// between the first frame and the stream.
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.log.With(zap.String("game", id))
	if err = writeState(conn, *gs); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readActions(conn, id, log)
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"),
					time.Now().Add(writeWait))
				return
			}
			if err = writeState(conn, st); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// readActions applies client actions until the connection fails. The
// resulting states reach the client through the subscription.
func (h *handlers) readActions(conn *websocket.Conn, id string, log *zap.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg actionMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Debug("ignoring malformed action", zap.Error(err))
			continue
		}
		switch msg.Action {
		case "play":
			if msg.Cell != nil {
				_, err = h.svc.Play(id, *msg.Cell)
			}
		case "reset":
			_, err = h.svc.Reset(id)
		case "start":
			_, err = h.svc.Start(id, msg.P1, msg.P2)
		}
		if err != nil {
			return
		}
	}
}

func writeState(conn *websocket.Conn, gs app.GameState) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(newStateMessage(gs))
}
