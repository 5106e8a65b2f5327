package storage

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"six/backend/internal/models"
)

// SaveMessage inserts a message row.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Error().Err(err).Str("room_id", msg.RoomID).Msg("failed to save message")
		return err
	}
	return nil
}

// GetMessageByID fetches a message, returning (nil, nil) when no row exists.
func (s *Service) GetMessageByID(id string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessagesByRoom returns every stored message of a room in ascending
// creation order. IDs are ULIDs, so ordering by id is ordering by creation.
// Expired-message filtering is the engine's job, not the store's.
func (s *Service) ListMessagesByRoom(roomID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("room_id = ?", roomID).Order("id asc").Find(&msgs).Error
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to list messages")
		return nil, err
	}
	return msgs, nil
}

// MarkMessageRead performs the single unread->read transition. The WHERE
// clause skips rows that are already read, which is what makes the operation
// idempotent: a second call affects zero rows and leaves expires_at alone.
func (s *Service) MarkMessageRead(id string, readAt, expiresAt time.Time) (bool, error) {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    readAt,
			"expires_at": expiresAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkMediaRevealed performs the combined reveal+read transition for media
// messages, on the same guard as MarkMessageRead.
func (s *Service) MarkMediaRevealed(id string, readAt, expiresAt time.Time) (bool, error) {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_media_revealed": true,
			"is_read":           true,
			"read_at":           readAt,
			"expires_at":        expiresAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteExpiredMessages physically removes rows whose countdown has run out
// and returns them, so the caller can announce each deletion on the change
// feed. Consumers already treat the rows as absent; this is the
// authoritative cleanup.
func (s *Service) DeleteExpiredMessages(now time.Time) ([]models.Message, error) {
	var deleted []models.Message
	res := s.DB.Clauses(clause.Returning{}).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&deleted)
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("failed to delete expired messages")
		return nil, res.Error
	}
	return deleted, nil
}
