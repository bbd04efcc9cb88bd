// Package notify delivers row-level change events for the notes table to
// in-process subscribers. The feed is backed by Postgres LISTEN/NOTIFY: a
// trigger raises a notification for every insert/update/delete, a dedicated
// connection listens, and the hub fans the decoded events out.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Operation identifies what happened to a notes row.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// NoteChange is one decoded change event.
type NoteChange struct {
	Op     Operation `json:"op"`
	NoteID int64     `json:"id"`
	UserID int64     `json:"user_id"`
}

// Hub fans NoteChange events out to registered subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers []chan NoteChange
	logger      zerolog.Logger
}

// NewHub creates a Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{logger: logger}
}

// Subscribe registers a new subscriber and returns its channel. Events are
// dropped for subscribers that fall behind; the feed only ever triggers cache
// invalidation, so a missed event costs one stale TTL window at worst.
func (h *Hub) Subscribe(buffer int) <-chan NoteChange {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan NoteChange, buffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Publish delivers a change event to every subscriber without blocking.
func (h *Hub) Publish(change NoteChange) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- change:
		default:
			h.logger.Warn().Str("op", string(change.Op)).Int64("noteId", change.NoteID).Msg("Subscriber busy, change event dropped")
		}
	}
}

// Close closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
