package chathub_test

import (
	"six/backend/internal/models"
)

// mockClient is a test double for the chathub.Client interface.
type mockClient struct {
	userID string
	roomID string
	send   chan models.RoomEvent
	closed bool
}

func newMockClient(userID, roomID string) *mockClient {
	return &mockClient{
		userID: userID,
		roomID: roomID,
		// Buffered so fan-out never blocks in tests.
		send: make(chan models.RoomEvent, 10),
	}
}

func (c *mockClient) GetUserID() string                       { return c.userID }
func (c *mockClient) GetRoomID() string                       { return c.roomID }
func (c *mockClient) GetSendChannel() chan<- models.RoomEvent { return c.send }
func (c *mockClient) Run()                                    {}
func (c *mockClient) Close()                                  { c.closed = true }

// recv returns the next delivered event, or nil when none is pending.
func (c *mockClient) recv() *models.RoomEvent {
	select {
	case ev := <-c.send:
		return &ev
	default:
		return nil
	}
}
