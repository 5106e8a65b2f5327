package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"six/backend/internal/apperr"
)

// Upload stores a media blob for a room after type/size validation.
func (h *Handler) Upload(c *gin.Context) {
	roomID := c.PostForm("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}
	if _, err := h.Rooms.Get(roomID); err != nil {
		abortWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, apperr.UploadRejected("no file provided"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, apperr.Internal("failed to read upload", err))
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, mediaType, err := h.Media.Put(roomID, fileHeader.Filename, contentType, f, fileHeader.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":        url,
		"media_type": mediaType,
		"size":       fileHeader.Size,
	})
}

type deleteUploadRequest struct {
	URL string `json:"url" binding:"required"`
}

// DeleteUpload removes a previously uploaded blob.
func (h *Handler) DeleteUpload(c *gin.Context) {
	var req deleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if err := h.Media.Delete(req.URL); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
