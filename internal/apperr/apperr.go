// Package apperr defines the error taxonomy of the chat core. Every storage
// or transport failure is mapped to one of these kinds at the service
// boundary, so handlers and clients only ever see a Kind.
package apperr

import "fmt"

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindExpired           Kind = "EXPIRED"
	KindRoomFull          Kind = "ROOM_FULL"
	KindConditionFailed   Kind = "CONDITION_FAILED"
	KindUploadRejected    Kind = "UPLOAD_REJECTED"
	KindDecryptionFailure Kind = "DECRYPTION_FAILURE"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindInternal          Kind = "INTERNAL"
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotFound(msg string) error        { return New(KindNotFound, msg) }
func Expired(msg string) error         { return New(KindExpired, msg) }
func RoomFull(msg string) error        { return New(KindRoomFull, msg) }
func ConditionFailed(msg string) error { return New(KindConditionFailed, msg) }
func UploadRejected(msg string) error  { return New(KindUploadRejected, msg) }
func InvalidArg(msg string) error      { return New(KindInvalidArgument, msg) }
func Internal(msg string, cause error) error {
	return Wrap(KindInternal, msg, cause)
}

// KindOf extracts the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
