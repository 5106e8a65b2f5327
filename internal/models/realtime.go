package models

// Event types pushed to room subscribers over the realtime feed.
const (
	EventMessageInsert = "message_insert"
	EventMessageUpdate = "message_update"
	EventMessageDelete = "message_delete"
	EventRoomUpdate    = "room_update"
	EventTyping        = "typing"
)

// RoomEvent is the wire format of the per-room change feed. Exactly one of
// Message, Room or Typing is set, according to Type.
type RoomEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`

	Message *Message      `json:"message,omitempty"`
	Room    *Room         `json:"room,omitempty"`
	Typing  *TypingSignal `json:"typing,omitempty"`
}

// TypingSignal is the ephemeral "partner is typing" broadcast. It is never
// persisted and carries no delivery guarantee.
type TypingSignal struct {
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id"`
	Color    string `json:"color"`
}
