package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"six/backend/internal/models"
)

// Storage is the persistence contract of the chat core: the Room Store and
// Message Store rows in Postgres plus the per-room change feed in Redis.
// Not-found lookups return (nil, nil); callers map that to their own errors.
type Storage interface {
	SaveRoom(room *models.Room) error
	GetRoomByID(roomID string) (*models.Room, error)
	ClaimGuestSlot(roomID, guestID, guestColor string, now time.Time) (bool, error)
	UpdateRoomName(roomID, name string) error
	TouchRoom(roomID string, now time.Time) error
	CloseRoom(roomID string) error
	ListInactiveRoomIDs(cutoff time.Time) ([]string, error)

	SaveMessage(msg *models.Message) error
	GetMessageByID(id string) (*models.Message, error)
	ListMessagesByRoom(roomID string) ([]models.Message, error)
	MarkMessageRead(id string, readAt, expiresAt time.Time) (bool, error)
	MarkMediaRevealed(id string, readAt, expiresAt time.Time) (bool, error)
	DeleteExpiredMessages(now time.Time) ([]models.Message, error)

	PublishEvent(roomID string, ev models.RoomEvent) error
	SubscribeToAllRooms() *redis.PubSub
}

// Service implements Storage on top of GORM (Postgres) and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// eventChannel is the Redis pub/sub channel carrying a room's change feed.
func eventChannel(roomID string) string {
	return "room:" + roomID + ":events"
}

// PublishEvent pushes a change-feed event to every subscriber of the room,
// on this process and any other server instance.
func (s *Service) PublishEvent(roomID string, ev models.RoomEvent) error {
	if s.Redis == nil {
		// The admin CLI runs without redis; nobody is listening anyway.
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, eventChannel(roomID), payload).Err()
}

// SubscribeToAllRooms pattern-subscribes to every room's change feed. The
// hub routes events to local clients by RoomID.
func (s *Service) SubscribeToAllRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, "room:*:events")
}
