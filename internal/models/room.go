package models

import "time"

// RoomStatus is the stored room state. Closure is derived from
// LastActivityAt at read time; StatusClosed is only written back by the
// sweeper once a room has passed its inactivity window.
type RoomStatus string

const (
	StatusActive RoomStatus = "active"
	StatusClosed RoomStatus = "closed"
)

// Room represents a two-party ephemeral conversation.
// The guest slot starts empty and, once occupied, never changes for the
// remaining life of the room.
type Room struct {
	// ID is the room's URL-safe identifier (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Name is an optional display name, at most 30 characters.
	Name string `gorm:"size:30" json:"name"`
	// CreatorID is the anonymous identity of the room creator.
	CreatorID string `gorm:"type:text;not null;index" json:"creator_id"`
	// CreatorColor is one of the six accent colors.
	CreatorColor string `gorm:"not null" json:"creator_color"`
	// GuestID is nil until a second party joins.
	GuestID *string `gorm:"type:text;index" json:"guest_id"`
	// GuestColor is nil until a second party joins.
	GuestColor *string `json:"guest_color"`

	Status RoomStatus `gorm:"type:text;not null;default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	// LastActivityAt is bumped by guest join and message send. The room is
	// closed once the inactivity window has elapsed since this timestamp.
	LastActivityAt time.Time `gorm:"index" json:"last_activity_at"`
}

// HasGuest reports whether the guest slot is occupied.
func (r *Room) HasGuest() bool {
	return r.GuestID != nil && *r.GuestID != ""
}

// IsParticipant reports whether identity holds either slot of the room.
func (r *Room) IsParticipant(identity string) bool {
	if identity == r.CreatorID {
		return true
	}
	return r.GuestID != nil && *r.GuestID == identity
}
