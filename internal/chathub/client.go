package chathub

import "six/backend/internal/models"

// Client is one realtime subscriber of a room's change feed. It abstracts
// the underlying transport so the hub can manage connection types uniformly.
type Client interface {
	// GetUserID returns the anonymous identity behind the connection.
	GetUserID() string
	// GetRoomID returns the room whose feed this client observes. Fixed at
	// connect time; a client watching another room opens another connection.
	GetRoomID() string

	// GetSendChannel returns the channel the hub pushes feed events into.
	GetSendChannel() chan<- models.RoomEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
