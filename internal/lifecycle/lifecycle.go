// Package lifecycle implements the room lifecycle state machine. A room is
// active until its rolling inactivity window elapses, then closed forever.
// Closure is derived from stored timestamps at read time; no transition is
// ever written for it, so a closed room row may still say "active".
package lifecycle

import (
	"time"

	"six/backend/internal/models"
)

// DefaultRoomTTL is the rolling inactivity window. Any message send or
// guest join pushes the closure deadline out by this much.
const DefaultRoomTTL = 6 * time.Hour

// Policy evaluates room closure under a rolling-activity window.
type Policy struct {
	TTL time.Duration
}

func NewPolicy(ttl time.Duration) Policy {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	return Policy{TTL: ttl}
}

// Deadline returns the instant at which the room closes unless activity
// bumps it first.
func (p Policy) Deadline(room *models.Room) time.Time {
	last := room.LastActivityAt
	if last.IsZero() {
		last = room.CreatedAt
	}
	return last.Add(p.TTL)
}

// IsClosed reports whether the room is in its terminal state at instant now.
// A room the sweeper already marked closed stays closed regardless of
// timestamps; the transition is one-way.
func (p Policy) IsClosed(room *models.Room, now time.Time) bool {
	if room.Status == models.StatusClosed {
		return true
	}
	return now.After(p.Deadline(room))
}

// Remaining returns the time left before closure, for countdown display.
// Never negative; closed rooms report zero.
func (p Policy) Remaining(room *models.Room, now time.Time) time.Duration {
	if room.Status == models.StatusClosed {
		return 0
	}
	d := p.Deadline(room).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
