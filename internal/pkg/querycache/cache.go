// Package querycache provides the shared read cache for the data-access
// layer. It replaces ambient module-level caching with an explicit object
// owned by the application root: every read is stored under a semantic key,
// every mutation invalidates the keys it affects, and entries go stale after
// a fixed TTL.
package querycache

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the staleness window applied when the cache is built with a
// non-positive TTL.
const DefaultTTL = 30 * time.Second

// Semantic key builders. Keys are hierarchical, ":"-separated, so that a
// prefix invalidation like InvalidatePrefix(KeyUserNotesPrefix) covers every
// user's owner-list at once.
const (
	KeyPublicNotes     = "publicNotes"
	KeyUserNotesPrefix = "userNotes"
	KeyNotePrefix      = "note"
	KeySavedPrefix     = "savedNotes"
	KeyIsSavedPrefix   = "isNoteSaved"
	KeyProfilePrefix   = "profile"
)

// UserNotesKey returns the cache key for a user's owner-list.
func UserNotesKey(userID int64) string {
	return KeyUserNotesPrefix + ":" + strconv.FormatInt(userID, 10)
}

// NoteKey returns the cache key for a single note.
func NoteKey(noteID int64) string {
	return KeyNotePrefix + ":" + strconv.FormatInt(noteID, 10)
}

// SavedNotesKey returns the cache key for a user's saved-note list.
func SavedNotesKey(userID int64) string {
	return KeySavedPrefix + ":" + strconv.FormatInt(userID, 10)
}

// IsSavedKey returns the cache key for a save-membership check.
func IsSavedKey(userID, noteID int64) string {
	return KeyIsSavedPrefix + ":" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(noteID, 10)
}

// ProfileKey returns the cache key for a profile read.
func ProfileKey(userID int64) string {
	return KeyProfilePrefix + ":" + strconv.FormatInt(userID, 10)
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL-bounded key/value store safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Cache with the given staleness window.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false when absent or stale.
// Stale entries are dropped on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a Set may have raced the expiry.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops the entries for the given exact keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// InvalidatePrefix drops every entry whose key equals prefix or starts with
// prefix + ":".
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.entries {
		if k == prefix || strings.HasPrefix(k, prefix+":") {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of live entries, counting stale ones that have not
// been touched yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
