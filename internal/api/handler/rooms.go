package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}

// CreateRoom opens a new room with the caller in the creator slot.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	_ = c.ShouldBindJSON(&req) // both fields are optional

	created, err := h.Rooms.Create(callerIdentity(c), req.Color, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room_id": created.ID, "room": created})
}

// GetRoom returns a room and its closure countdown. Closed rooms come back
// as 410, unknown ones as 404.
func (h *Handler) GetRoom(c *gin.Context) {
	found, err := h.Rooms.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":              found,
		"remaining_seconds": int(h.Rooms.Remaining(found).Seconds()),
	})
}

type joinRoomRequest struct {
	Color string `json:"color"`
}

// JoinRoom runs the guest-slot admission protocol for the caller.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	_ = c.ShouldBindJSON(&req)

	joined, err := h.Rooms.AttemptJoin(c.Param("id"), callerIdentity(c), req.Color)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": joined})
}

type renameRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameRoom sets the room's display name.
func (h *Handler) RenameRoom(c *gin.Context) {
	var req renameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	renamed, err := h.Rooms.Rename(c.Param("id"), callerIdentity(c), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": renamed})
}
