package event

import (
	"context"
	"log/slog"
)

// RunAuditLog writes every event on the bus to logger until ctx is done.
func RunAuditLog(ctx context.Context, bus Bus, logger *slog.Logger) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			logger.Info("audit",
				"event_id", e.ID,
				"type", string(e.Type),
				"post_id", e.PostID,
				"actor_id", e.ActorID,
				"at", e.Timestamp,
			)
		}
	}
}
