package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"six/backend/internal/models"
)

// ListMessages returns the visible messages of a room in ascending creation
// order. Expired ones are already filtered by the engine.
func (h *Handler) ListMessages(c *gin.Context) {
	// Surface 404/410 for the room itself before listing.
	if _, err := h.Rooms.Get(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	msgs, err := h.Messages.List(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type sendMessageRequest struct {
	Content   string           `json:"content"`
	MediaURL  string           `json:"media_url"`
	MediaType models.MediaType `json:"media_type"`
}

// SendMessage creates a text or media message from the caller.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message body"})
		return
	}

	var (
		sent *models.Message
		err  error
	)
	if req.MediaURL != "" {
		sent, err = h.Messages.SendMedia(c.Param("id"), callerIdentity(c), req.MediaURL, req.MediaType)
	} else {
		sent, err = h.Messages.SendText(c.Param("id"), callerIdentity(c), req.Content)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": sent})
}

// MarkRead starts the message's expiry countdown on behalf of the caller.
func (h *Handler) MarkRead(c *gin.Context) {
	msg, err := h.Messages.MarkRead(c.Param("id"), callerIdentity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Reveal passes the tap-to-reveal gate on a media message.
func (h *Handler) Reveal(c *gin.Context) {
	msg, err := h.Messages.Reveal(c.Param("id"), callerIdentity(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

type typingRequest struct {
	Color string `json:"color"`
}

// PostTyping broadcasts a throttled typing signal to the partner.
func (h *Handler) PostTyping(c *gin.Context) {
	var req typingRequest
	_ = c.ShouldBindJSON(&req)

	sent := h.Typing.BroadcastTyping(c.Param("id"), callerIdentity(c), req.Color)
	c.JSON(http.StatusAccepted, gin.H{"sent": sent})
}
