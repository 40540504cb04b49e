// Package apperr defines the error taxonomy shared by all handlers. Every
// domain failure is one of a small set of kinds; anything unclassified is
// treated as a server error by the HTTP layer.
package apperr

import "errors"

type Kind int

const (
	KindServer     Kind = iota // unclassified persistence or internal failure
	KindValidation             // missing or malformed input
	KindConflict               // duplicate email
	KindNotFound               // unknown user or post
	KindAuth                   // bad credentials
	KindUpstream               // external identity provider failure
)

// Error is a classified failure with a client-safe message. Err, when set,
// carries the underlying cause for server-side logging only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Msg: msg} }

// Upstream wraps a failure from an external collaborator (OAuth verification).
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

// Server wraps an unclassified failure with a generic client message.
func Server(msg string, err error) *Error {
	return &Error{Kind: KindServer, Msg: msg, Err: err}
}

// KindOf extracts the kind from any error chain; plain errors are KindServer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// Message returns the client-safe message for an error chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Server error"
}
