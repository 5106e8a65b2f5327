// Package sweeper is the authoritative, server-side enforcement of expiry.
// Clients filter stale rows by comparing timestamps at render time; the
// sweeper is what actually closes inactive rooms and removes expired
// message rows, so a client with a skewed clock can at worst see stale
// content briefly, not forever.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"six/backend/internal/lifecycle"
	"six/backend/internal/metrics"
	"six/backend/internal/models"
	"six/backend/internal/storage"
)

const DefaultInterval = time.Minute

type Sweeper struct {
	Store    storage.Storage
	Policy   lifecycle.Policy
	Interval time.Duration

	// Now is the wall clock, swappable in tests.
	Now func() time.Time
}

func New(store storage.Storage, policy lifecycle.Policy, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		Store:    store,
		Policy:   policy,
		Interval: interval,
		Now:      time.Now,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.Interval).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one enforcement pass: purge expired messages, then close rooms
// whose inactivity window has elapsed. Failures are logged and retried on
// the next tick; a sweep never takes the process down.
func (s *Sweeper) Sweep() {
	now := s.Now()

	purged, err := s.Store.DeleteExpiredMessages(now)
	if err == nil && len(purged) > 0 {
		metrics.MessagesExpired.Add(float64(len(purged)))
		log.Info().Int("count", len(purged)).Msg("purged expired messages")
		for i := range purged {
			m := purged[i]
			if err := s.Store.PublishEvent(m.RoomID, models.RoomEvent{
				Type:    models.EventMessageDelete,
				RoomID:  m.RoomID,
				Message: &m,
			}); err != nil {
				log.Warn().Err(err).Str("room_id", m.RoomID).Msg("failed to announce message deletion")
			}
		}
	}

	cutoff := now.Add(-s.Policy.TTL)
	ids, err := s.Store.ListInactiveRoomIDs(cutoff)
	if err != nil {
		return
	}
	for _, id := range ids {
		if err := s.Store.CloseRoom(id); err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("failed to close room")
			continue
		}
		metrics.RoomsClosed.Inc()
		log.Info().Str("room_id", id).Msg("room closed after inactivity")
	}
}
