package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"six/backend/internal/apperr"
	"six/backend/internal/chathub"
	"six/backend/internal/media"
	"six/backend/internal/message"
	"six/backend/internal/presence"
	"six/backend/internal/room"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	Rooms    *room.Service
	Messages *message.Service
	Typing   *presence.Broadcaster
	Media    *media.DiskStore
	Hub      *chathub.Manager

	jwtSecret []byte
}

func NewHandler(rooms *room.Service, messages *message.Service, typing *presence.Broadcaster, blobs *media.DiskStore, hub *chathub.Manager, jwtSecret string) *Handler {
	return &Handler{
		Rooms:     rooms,
		Messages:  messages,
		Typing:    typing,
		Media:     blobs,
		Hub:       hub,
		jwtSecret: []byte(jwtSecret),
	}
}

// abortWithError maps the error taxonomy onto HTTP statuses. Closed rooms
// (410) are deliberately distinct from unknown ones (404) so the UI can
// explain closure instead of absence.
func abortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindExpired:
		status = http.StatusGone
	case apperr.KindRoomFull:
		status = http.StatusForbidden
	case apperr.KindConditionFailed:
		status = http.StatusConflict
	case apperr.KindUploadRejected, apperr.KindInvalidArgument:
		status = http.StatusBadRequest
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": string(kind)})
}
