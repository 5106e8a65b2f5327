// Package room implements the occupancy controller: room creation, the
// two-slot admission protocol and room renaming. All lifecycle questions are
// delegated to the lifecycle policy.
package room

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"six/backend/internal/apperr"
	"six/backend/internal/lifecycle"
	"six/backend/internal/metrics"
	"six/backend/internal/models"
	"six/backend/internal/storage"
)

const maxNameLength = 30

type Service struct {
	Store  storage.Storage
	Policy lifecycle.Policy

	// Now is the wall clock, swappable in tests.
	Now func() time.Time
}

func NewService(store storage.Storage, policy lifecycle.Policy) *Service {
	return &Service{
		Store:  store,
		Policy: policy,
		Now:    time.Now,
	}
}

// Create opens a new room with the caller in the creator slot.
func (s *Service) Create(creatorID, color, name string) (*models.Room, error) {
	if creatorID == "" {
		return nil, apperr.InvalidArg("creator identity is required")
	}
	if color == "" {
		color = models.DefaultCreatorColor
	}
	if !models.IsAccentColor(color) {
		return nil, apperr.ErrBadAccentColor
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperr.ErrNameTooLong
	}

	now := s.Now()
	room := &models.Room{
		ID:             uuid.NewString(),
		Name:           name,
		CreatorID:      creatorID,
		CreatorColor:   color,
		Status:         models.StatusActive,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.Store.SaveRoom(room); err != nil {
		return nil, apperr.Internal("failed to create room", err)
	}

	metrics.RoomsCreated.Inc()
	log.Info().Str("room_id", room.ID).Msg("room created")
	return room, nil
}

// Get fetches a room and evaluates its lifecycle state. Closed rooms are
// reported as expired, distinct from absent ones.
func (s *Service) Get(roomID string) (*models.Room, error) {
	room, err := s.Store.GetRoomByID(roomID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch room", err)
	}
	if room == nil {
		return nil, apperr.ErrRoomNotFound
	}
	if s.Policy.IsClosed(room, s.Now()) {
		return nil, apperr.ErrRoomExpired
	}
	return room, nil
}

// AttemptJoin runs the admission protocol. Self-reference by the creator and
// re-join by the established guest are idempotent no-ops; a third distinct
// identity is rejected. The slot assignment itself is a conditional write,
// so two simultaneous second parties produce exactly one winner.
func (s *Service) AttemptJoin(roomID, identity, color string) (*models.Room, error) {
	room, err := s.Get(roomID)
	if err != nil {
		return nil, err
	}

	if identity == room.CreatorID {
		return room, nil
	}
	if room.HasGuest() {
		if *room.GuestID == identity {
			return room, nil
		}
		return nil, apperr.ErrRoomFull
	}

	if color == "" {
		color = models.DefaultGuestColor
	}
	if !models.IsAccentColor(color) {
		return nil, apperr.ErrBadAccentColor
	}

	won, err := s.Store.ClaimGuestSlot(roomID, identity, color, s.Now())
	if err != nil {
		return nil, apperr.Internal("failed to claim guest slot", err)
	}
	if !won {
		// Lost the race. Re-fetch and re-evaluate rather than retrying the
		// write: the slot may now hold this same identity (a duplicate
		// request) or a different one (a genuine third party).
		room, err = s.Get(roomID)
		if err != nil {
			return nil, err
		}
		if room.HasGuest() && *room.GuestID == identity {
			return room, nil
		}
		return nil, apperr.ErrRoomFull
	}

	room, err = s.Get(roomID)
	if err != nil {
		return nil, err
	}

	metrics.GuestsJoined.Inc()
	log.Info().Str("room_id", roomID).Msg("guest joined room")

	if err := s.Store.PublishEvent(roomID, models.RoomEvent{
		Type:   models.EventRoomUpdate,
		RoomID: roomID,
		Room:   room,
	}); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("failed to publish room update")
	}
	return room, nil
}

// Rename sets the room's display name. Only participants may rename.
func (s *Service) Rename(roomID, identity, name string) (*models.Room, error) {
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperr.ErrNameTooLong
	}

	room, err := s.Get(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(identity) {
		return nil, apperr.ErrRoomNotFound
	}

	if err := s.Store.UpdateRoomName(roomID, name); err != nil {
		return nil, apperr.Internal("failed to rename room", err)
	}
	room.Name = name

	if err := s.Store.PublishEvent(roomID, models.RoomEvent{
		Type:   models.EventRoomUpdate,
		RoomID: roomID,
		Room:   room,
	}); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("failed to publish room update")
	}
	return room, nil
}

// Remaining exposes the countdown for UI display.
func (s *Service) Remaining(room *models.Room) time.Duration {
	return s.Policy.Remaining(room, s.Now())
}
