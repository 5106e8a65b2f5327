// Package storagetest provides a testify mock of storage.Storage shared by
// the service and hub test suites.
package storagetest

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"six/backend/internal/models"
)

type MockStorage struct {
	mock.Mock
}

// Room operations

func (m *MockStorage) SaveRoom(room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) ClaimGuestSlot(roomID, guestID, guestColor string, now time.Time) (bool, error) {
	args := m.Called(roomID, guestID, guestColor, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) UpdateRoomName(roomID, name string) error {
	args := m.Called(roomID, name)
	return args.Error(0)
}

func (m *MockStorage) TouchRoom(roomID string, now time.Time) error {
	args := m.Called(roomID, now)
	return args.Error(0)
}

func (m *MockStorage) CloseRoom(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockStorage) ListInactiveRoomIDs(cutoff time.Time) ([]string, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Message operations

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(id string) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) ListMessagesByRoom(roomID string) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkMessageRead(id string, readAt, expiresAt time.Time) (bool, error) {
	args := m.Called(id, readAt, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) MarkMediaRevealed(id string, readAt, expiresAt time.Time) (bool, error) {
	args := m.Called(id, readAt, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) DeleteExpiredMessages(now time.Time) ([]models.Message, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Change feed

func (m *MockStorage) PublishEvent(roomID string, ev models.RoomEvent) error {
	args := m.Called(roomID, ev)
	return args.Error(0)
}

func (m *MockStorage) SubscribeToAllRooms() *redis.PubSub {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}
