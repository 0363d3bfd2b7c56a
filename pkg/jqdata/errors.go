package jqdata

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure surfaced by the client.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindServer
	KindDecode
	KindEncode
	KindNoCredential
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindServer:
		return "server error"
	case KindDecode:
		return "decode error"
	case KindEncode:
		return "encode error"
	case KindNoCredential:
		return "no credential"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrTransport    = errors.New("jqdata: transport error")
	ErrServer       = errors.New("jqdata: server error")
	ErrDecode       = errors.New("jqdata: decode error")
	ErrEncode       = errors.New("jqdata: encode error")
	ErrNoCredential = errors.New("jqdata: credential not available to refresh token")

	ErrUnknownMethod = errors.New("jqdata: unknown method")
)

// Error is the single failure type returned by the client.
type Error struct {
	Kind    ErrorKind
	Method  string // remote method, empty for token exchange
	Message string // server text verbatim for KindServer
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Method != "" {
		msg = e.Method + ": " + msg
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("jqdata: %s: %s: %v", msg, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("jqdata: %s: %s", msg, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("jqdata: %s: %v", msg, e.Err)
	}
	return "jqdata: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrServer:
		return e.Kind == KindServer
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrEncode:
		return e.Kind == KindEncode
	case ErrNoCredential:
		return e.Kind == KindNoCredential
	}
	return false
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func serverError(msg string) *Error {
	return &Error{Kind: KindServer, Message: msg}
}

func decodeError(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Err: err}
}

func encodeError(msg string, err error) *Error {
	return &Error{Kind: KindEncode, Message: msg, Err: err}
}

func transportError(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

// withMethod stamps method onto err if it is an *Error without one.
func withMethod(err error, method string) error {
	var e *Error
	if errors.As(err, &e) && e.Method == "" {
		e.Method = method
	}
	return err
}
