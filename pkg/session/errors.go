package session

import (
	"errors"
	"fmt"
)

// ErrNoSessionFile reports that no session has been saved for a target yet.
// Store.Load treats it as success.
var ErrNoSessionFile = errors.New("session: no session file")

// ErrorKind classifies load failures.
type ErrorKind int

const (
	// UnknownError covers malformed JSON.
	UnknownError ErrorKind = iota
	// InvalidSessionFile covers unreadable files and a wrong id or version.
	InvalidSessionFile
	// NotAnObject means the document root is not a JSON object.
	NotAnObject
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownError:
		return "unknown error"
	case InvalidSessionFile:
		return "invalid session file"
	case NotAnObject:
		return "not an object"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is a whole-document load failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrUnknown            = &Error{Kind: UnknownError}
	ErrInvalidSessionFile = &Error{Kind: InvalidSessionFile}
	ErrNotAnObject        = &Error{Kind: NotAnObject}
)

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("session: %s: %v", msg, e.Err)
	}
	return "session: " + msg
}

// Unwrap exposes the underlying I/O or decoding error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// KindOf returns the kind of a load error, or false if err is not one.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
