// Package presence broadcasts the ephemeral "partner is typing" signal. The
// signal is never persisted, carries no delivery guarantee and is throttled
// per sender so a held-down key does not flood the change feed.
package presence

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"six/backend/internal/metrics"
	"six/backend/internal/models"
	"six/backend/internal/storage"
)

// ThrottleInterval is the minimum spacing between broadcasts per sender.
const ThrottleInterval = 500 * time.Millisecond

type Broadcaster struct {
	Store    storage.Storage
	Interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewBroadcaster(store storage.Storage) *Broadcaster {
	return &Broadcaster{
		Store:    store,
		Interval: ThrottleInterval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// BroadcastTyping publishes a typing signal on the room's change feed,
// fire-and-forget. Returns false when the per-sender throttle swallowed the
// signal. Publish failures are logged and otherwise ignored: the signal is
// lossy by contract.
func (b *Broadcaster) BroadcastTyping(roomID, senderID, color string) bool {
	if !b.limiter(senderID).Allow() {
		metrics.TypingDropped.Inc()
		return false
	}

	err := b.Store.PublishEvent(roomID, models.RoomEvent{
		Type:   models.EventTyping,
		RoomID: roomID,
		Typing: &models.TypingSignal{RoomID: roomID, SenderID: senderID, Color: color},
	})
	if err != nil {
		log.Debug().Err(err).Str("room_id", roomID).Msg("typing signal lost")
	}
	return true
}

func (b *Broadcaster) limiter(senderID string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Senders are anonymous and transient; cap the map instead of tracking
	// per-sender lifetimes.
	if len(b.limiters) > 4096 {
		b.limiters = make(map[string]*rate.Limiter)
	}

	lim, ok := b.limiters[senderID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(b.Interval), 1)
		b.limiters[senderID] = lim
	}
	return lim
}
