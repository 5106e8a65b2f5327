// Package history keeps the client-resident ledger of rooms the local
// identity has visited. The ledger runs its own expiry clock, independent of
// the server's room state: an entry lapses six hours after the later of its
// last message and last visit, and at most the ten most recently visited
// entries are retained.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// EntryTTL is how long an entry survives without activity.
	EntryTTL = 6 * time.Hour
	// MaxEntries caps the ledger; the least recently visited entry is
	// evicted first.
	MaxEntries = 10
)

// Entry mirrors one visited room.
type Entry struct {
	RoomID        string     `json:"room_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastVisitedAt time.Time  `json:"last_visited_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	IsCreator     bool       `json:"is_creator"`
	Color         string     `json:"color"`
	RoomName      string     `json:"room_name,omitempty"`
}

// activityAt is the clock the expiry sweep runs against.
func (e Entry) activityAt() time.Time {
	if e.LastMessageAt != nil {
		return *e.LastMessageAt
	}
	return e.LastVisitedAt
}

// Cache is a JSON-file-backed history ledger. Safe for concurrent use.
type Cache struct {
	path string

	mu sync.Mutex

	// Now is the wall clock, swappable in tests.
	Now func() time.Time
}

func NewCache(path string) *Cache {
	return &Cache{path: path, Now: time.Now}
}

// RecordVisit upserts an entry by room id and stamps the visit time. An
// existing entry keeps its LastMessageAt and RoomName when the new write
// does not supply them. Beyond capacity the least recently visited entry is
// evicted.
func (c *Cache) RecordVisit(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	e.LastVisitedAt = now
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}

	entries := c.load()
	replaced := false
	for i := range entries {
		if entries[i].RoomID != e.RoomID {
			continue
		}
		if e.RoomName == "" {
			e.RoomName = entries[i].RoomName
		}
		if e.LastMessageAt == nil {
			e.LastMessageAt = entries[i].LastMessageAt
		}
		e.CreatedAt = entries[i].CreatedAt
		entries[i] = e
		replaced = true
		break
	}
	if !replaced {
		entries = append(entries, e)
	}

	sortByVisit(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	c.store(entries)
}

// RecordMessageActivity bumps an entry's message clock, deferring its
// expiry. Unknown rooms are ignored.
func (c *Cache) RecordMessageActivity(roomID string, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	for i := range entries {
		if entries[i].RoomID == roomID {
			t := ts
			entries[i].LastMessageAt = &t
			c.store(entries)
			return
		}
	}
}

// Remove drops an entry.
func (c *Cache) Remove(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.RoomID != roomID {
			kept = append(kept, e)
		}
	}
	c.store(kept)
}

// List sweeps lapsed entries, persists the shrunken ledger when anything was
// dropped, and returns the remainder sorted by last visit, newest first.
func (c *Cache) List() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	now := c.Now()
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if now.Sub(e.activityAt()) < EntryTTL {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(entries) {
		c.store(kept)
	}
	sortByVisit(kept)
	return kept
}

func sortByVisit(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastVisitedAt.After(entries[j].LastVisitedAt)
	})
}

// load reads the ledger. A missing or corrupt file is an empty ledger; the
// cache degrades rather than erroring.
func (c *Cache) load() []Entry {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Str("path", c.path).Msg("history ledger is corrupt, starting over")
		return nil
	}
	return entries
}

func (c *Cache) store(entries []Entry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		log.Warn().Err(err).Msg("history storage unavailable")
		return
	}
	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		log.Warn().Err(err).Msg("history storage unavailable")
	}
}
