package models

import "time"

// MessageKind discriminates the two message variants. Text messages are
// readable as soon as the partner sees them; media messages carry a reveal
// gate that must be passed before the message counts as read.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindMedia MessageKind = "media"
)

// MediaType is the coarse category of an uploaded blob.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Message is one unit of conversation content. Content is an opaque
// payload: the engine never inspects it, so it may be plaintext or a sealed
// envelope. A message is created unread, transitions exactly once to read
// (which fixes ExpiresAt), and is logically deleted once ExpiresAt passes.
type Message struct {
	// ID is a ULID, so lexical order matches creation order.
	ID       string      `gorm:"primaryKey" json:"id"`
	RoomID   string      `gorm:"type:uuid;not null;index:idx_room_msg" json:"room_id"`
	SenderID string      `gorm:"type:text;not null;index:idx_room_msg" json:"sender_id"`
	Kind     MessageKind `gorm:"type:text;not null" json:"kind"`

	// Content is the opaque text payload. Empty for media messages.
	Content string `gorm:"type:text" json:"content"`

	// MediaURL and MediaType are set only for media messages.
	MediaURL  string    `json:"media_url,omitempty"`
	MediaType MediaType `json:"media_type,omitempty"`
	// IsMediaRevealed is the tap-to-reveal gate. Always false for text.
	IsMediaRevealed bool `gorm:"not null;default:false" json:"is_media_revealed"`

	IsRead bool `gorm:"not null;default:false" json:"is_read"`
	// ReadAt is set once, at the unread->read transition.
	ReadAt *time.Time `json:"read_at"`
	// ExpiresAt is always ReadAt plus the message TTL, set in the same
	// update as ReadAt and never touched again.
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

// IsMedia reports whether the message carries a media payload.
func (m *Message) IsMedia() bool {
	return m.Kind == KindMedia
}
