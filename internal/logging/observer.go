package logging

import (
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/domain"
)

// Observer writes every game transition to a zap logger.
type Observer struct {
	log *zap.Logger
}

// NewObserver returns an observer logging under the "game" name.
func NewObserver(log *zap.Logger) *Observer {
	return &Observer{log: log.Named("game")}
}

// Observe logs starts, ends and resets at info and single moves at debug.
func (o *Observer) Observe(e domain.Event) {
	st := e.Result.Status
	fields := []zap.Field{
		zap.Stringer("event", e.Kind),
		zap.Stringer("phase", st.Phase),
		zap.String("status", st.Text()),
	}
	if e.Index >= 0 {
		fields = append(fields, zap.Int("cell", e.Index))
	}

	switch e.Kind {
	case domain.EventStarted:
		o.log.Info("game started", append(fields,
			zap.String("player_one", st.Players[domain.PlayerOne].Name),
			zap.String("player_two", st.Players[domain.PlayerTwo].Name),
		)...)
	case domain.EventEnded:
		fields = append(fields, zap.Stringer("outcome", st.Outcome.Kind))
		if w, ok := st.Winner(); ok {
			fields = append(fields, zap.String("winner", w.Name), zap.Stringer("marker", w.Marker))
		}
		o.log.Info("game ended", fields...)
	case domain.EventReset:
		o.log.Info("round reset", fields...)
	default:
		o.log.Debug("move played", fields...)
	}
}
