package storage

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"six/backend/internal/models"
)

// SaveRoom inserts or updates a room row.
func (s *Service) SaveRoom(room *models.Room) error {
	return s.DB.Save(room).Error
}

// GetRoomByID fetches a room, returning (nil, nil) when no row exists.
func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch room")
		return nil, err
	}
	return &room, nil
}

// ClaimGuestSlot atomically occupies the guest slot. The WHERE clause only
// matches while the slot is still empty, so under concurrent joins exactly
// one caller sees a true result; everyone else lost the race.
func (s *Service) ClaimGuestSlot(roomID, guestID, guestColor string, now time.Time) (bool, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND guest_id IS NULL", roomID).
		Updates(map[string]interface{}{
			"guest_id":         guestID,
			"guest_color":      guestColor,
			"last_activity_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateRoomName renames a room. Length validation happens in the service
// layer before this is called.
func (s *Service) UpdateRoomName(roomID, name string) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("name", name).Error
}

// TouchRoom bumps the rolling activity clock.
func (s *Service) TouchRoom(roomID string, now time.Time) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("last_activity_at", now).Error
}

// CloseRoom writes the terminal state. Used by the sweeper and the admin
// CLI; read paths derive closure from timestamps and never call this.
func (s *Service) CloseRoom(roomID string) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", models.StatusClosed).Error
}

// ListInactiveRoomIDs returns rooms still marked active whose last activity
// predates cutoff. These are the sweeper's close candidates.
func (s *Service) ListInactiveRoomIDs(cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.Room{}).
		Where("status = ? AND last_activity_at < ?", models.StatusActive, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to list inactive rooms")
		return nil, err
	}
	return ids, nil
}
