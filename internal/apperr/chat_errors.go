package apperr

var (
	ErrRoomNotFound    = NotFound("room does not exist")
	ErrRoomExpired     = Expired("room has closed")
	ErrRoomFull        = RoomFull("room already has two participants")
	ErrMessageNotFound = NotFound("message not found")

	ErrNameTooLong    = InvalidArg("room name must be at most 30 characters")
	ErrBadAccentColor = InvalidArg("color must be one of the six accent colors")

	ErrOwnMessageRead  = InvalidArg("sender cannot mark their own message as read")
	ErrHiddenMediaRead = InvalidArg("media must be revealed before it can be read")
	ErrRevealText      = InvalidArg("only media messages can be revealed")

	ErrFileTooLarge = UploadRejected("file exceeds the 10 MiB limit")
	ErrFileBadType  = UploadRejected("only images and videos are allowed")
)
