package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Channel is the NOTIFY channel raised by the notes trigger (see migrations).
const Channel = "note_changes"

// reconnectDelay is how long the listener waits before re-acquiring a
// connection after a listen failure.
const reconnectDelay = 5 * time.Second

// Listener holds a dedicated pool connection on LISTEN and publishes decoded
// notifications to a Hub.
type Listener struct {
	pool   *pgxpool.Pool
	hub    *Hub
	logger zerolog.Logger
}

// NewListener creates a Listener publishing to hub.
func NewListener(pool *pgxpool.Pool, hub *Hub, logger zerolog.Logger) *Listener {
	return &Listener{pool: pool, hub: hub, logger: logger}
}

// Run blocks listening for notifications until ctx is cancelled. Connection
// failures are logged and retried; the feed is best-effort.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				l.logger.Info().Msg("Change-feed listener stopped")
				return
			}
			l.logger.Error().Err(err).Msg("Change-feed connection lost, reconnecting")
		}
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Change-feed listener stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return err
	}
	l.logger.Info().Str("channel", Channel).Msg("Change-feed listener attached")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return err
		}

		var change NoteChange
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			l.logger.Warn().Err(err).Str("payload", notification.Payload).Msg("Undecodable change notification skipped")
			continue
		}
		l.hub.Publish(change)
	}
}
