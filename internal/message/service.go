// Package message implements the per-message expiry engine: unread messages
// start a fixed countdown the moment the partner reads them, media messages
// additionally sit behind a tap-to-reveal gate, and anything past its
// deadline is treated as absent by every consumer.
package message

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"six/backend/internal/apperr"
	"six/backend/internal/lifecycle"
	"six/backend/internal/metrics"
	"six/backend/internal/models"
	"six/backend/internal/storage"
)

// DefaultMessageTTL is the read-to-expiry countdown.
const DefaultMessageTTL = 6 * time.Minute

// Expired reports whether the message is logically deleted at instant now.
func Expired(m *models.Message, now time.Time) bool {
	return m.ExpiresAt != nil && now.After(*m.ExpiresAt)
}

type Service struct {
	Store  storage.Storage
	Policy lifecycle.Policy
	TTL    time.Duration

	// Now is the wall clock, swappable in tests.
	Now func() time.Time
}

func NewService(store storage.Storage, policy lifecycle.Policy, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	return &Service{
		Store:  store,
		Policy: policy,
		TTL:    ttl,
		Now:    time.Now,
	}
}

// SendText creates an unread text message. Content is stored as-is; it may
// already be a sealed envelope, the engine does not care.
func (s *Service) SendText(roomID, senderID, content string) (*models.Message, error) {
	if content == "" {
		return nil, apperr.InvalidArg("message content is required")
	}
	return s.send(&models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Kind:     models.KindText,
		Content:  content,
	})
}

// SendMedia creates a hidden media message. It stays behind the reveal gate
// until the partner taps it.
func (s *Service) SendMedia(roomID, senderID, mediaURL string, mediaType models.MediaType) (*models.Message, error) {
	if mediaURL == "" {
		return nil, apperr.InvalidArg("media url is required")
	}
	if mediaType != models.MediaImage && mediaType != models.MediaVideo {
		return nil, apperr.InvalidArg("media type must be image or video")
	}
	return s.send(&models.Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Kind:      models.KindMedia,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	})
}

func (s *Service) send(msg *models.Message) (*models.Message, error) {
	room, err := s.Store.GetRoomByID(msg.RoomID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch room", err)
	}
	if room == nil {
		return nil, apperr.ErrRoomNotFound
	}
	now := s.Now()
	if s.Policy.IsClosed(room, now) {
		return nil, apperr.ErrRoomExpired
	}
	if !room.IsParticipant(msg.SenderID) {
		return nil, apperr.ErrRoomNotFound
	}

	msg.ID = ulid.Make().String()
	msg.CreatedAt = now
	if err := s.Store.SaveMessage(msg); err != nil {
		return nil, apperr.Internal("failed to save message", err)
	}

	// Sending counts as room activity, pushing closure out.
	if err := s.Store.TouchRoom(msg.RoomID, now); err != nil {
		log.Warn().Err(err).Str("room_id", msg.RoomID).Msg("failed to bump room activity")
	}

	metrics.MessagesSent.WithLabelValues(string(msg.Kind)).Inc()

	if err := s.Store.PublishEvent(msg.RoomID, models.RoomEvent{
		Type:    models.EventMessageInsert,
		RoomID:  msg.RoomID,
		Message: msg,
	}); err != nil {
		log.Warn().Err(err).Str("room_id", msg.RoomID).Msg("failed to publish message insert")
	}
	return msg, nil
}

// MarkRead applies the unread->read transition and starts the countdown.
// The sender can never trigger it on their own message, hidden media must be
// revealed first, and repeated calls are no-ops that leave the original
// deadline untouched.
func (s *Service) MarkRead(messageID, viewer string) (*models.Message, error) {
	msg, err := s.Store.GetMessageByID(messageID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch message", err)
	}
	if msg == nil {
		return nil, apperr.ErrMessageNotFound
	}
	now := s.Now()
	if Expired(msg, now) {
		// The row may still exist until the sweeper passes, but the
		// message is already gone.
		return nil, apperr.ErrMessageNotFound
	}
	if viewer == msg.SenderID {
		return nil, apperr.ErrOwnMessageRead
	}
	if msg.IsMedia() && !msg.IsMediaRevealed {
		return nil, apperr.ErrHiddenMediaRead
	}
	if msg.IsRead {
		return msg, nil
	}

	changed, err := s.Store.MarkMessageRead(messageID, now, now.Add(s.TTL))
	if err != nil {
		return nil, apperr.Internal("failed to mark message read", err)
	}
	return s.afterReadTransition(messageID, changed)
}

// Reveal passes the tap-to-reveal gate on a media message. Reveal implies
// read: both flags and the countdown are set in one transition, so there is
// no window where media is visible but the clock has not started.
func (s *Service) Reveal(messageID, viewer string) (*models.Message, error) {
	msg, err := s.Store.GetMessageByID(messageID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch message", err)
	}
	if msg == nil {
		return nil, apperr.ErrMessageNotFound
	}
	now := s.Now()
	if Expired(msg, now) {
		return nil, apperr.ErrMessageNotFound
	}
	if !msg.IsMedia() {
		return nil, apperr.ErrRevealText
	}
	if viewer == msg.SenderID {
		return nil, apperr.ErrOwnMessageRead
	}
	if msg.IsMediaRevealed || msg.IsRead {
		return msg, nil
	}

	changed, err := s.Store.MarkMediaRevealed(messageID, now, now.Add(s.TTL))
	if err != nil {
		return nil, apperr.Internal("failed to reveal media", err)
	}
	return s.afterReadTransition(messageID, changed)
}

// afterReadTransition re-fetches the row (whether this caller won the
// conditional write or a concurrent one did) and publishes the update.
func (s *Service) afterReadTransition(messageID string, changed bool) (*models.Message, error) {
	msg, err := s.Store.GetMessageByID(messageID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch message", err)
	}
	if msg == nil || Expired(msg, s.Now()) {
		return nil, apperr.ErrMessageNotFound
	}
	if changed {
		if err := s.Store.PublishEvent(msg.RoomID, models.RoomEvent{
			Type:    models.EventMessageUpdate,
			RoomID:  msg.RoomID,
			Message: msg,
		}); err != nil {
			log.Warn().Err(err).Str("room_id", msg.RoomID).Msg("failed to publish message update")
		}
	}
	return msg, nil
}

// List returns the visible messages of a room in ascending creation order.
// Expired messages are filtered out per call; rows that still exist in the
// store are simply not shown.
func (s *Service) List(roomID string) ([]models.Message, error) {
	msgs, err := s.Store.ListMessagesByRoom(roomID)
	if err != nil {
		return nil, apperr.Internal("failed to list messages", err)
	}
	now := s.Now()
	visible := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if Expired(&m, now) {
			continue
		}
		visible = append(visible, m)
	}
	return visible, nil
}
