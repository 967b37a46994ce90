package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Using sentinel errors allows services to return specific, recognizable error types
// without coupling them to implementation details like HTTP status codes. The API
// layer can then use `errors.Is()` to check for these specific errors and map
// them to the correct HTTP responses.

var (
	// ErrConfig signifies that the application is not configured well enough to
	// serve the request (typically a missing API key). Flows that hit it must
	// not contact the network or persist any state; the user is pointed at the
	// settings form instead.
	ErrConfig = errors.New("configuration required")

	// ErrInput signifies that the request itself is unusable: an empty
	// follow-up prompt, or a follow-up with no stored conversation to extend.
	// Reported to the requesting viewer only, before any network call.
	ErrInput = errors.New("invalid input")

	// ErrValidation signifies that input data provided by a client failed
	// field-level validation at the API boundary.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrProvider signifies a failed model call: a non-2xx HTTP status or a
	// response envelope missing the expected completion field. The wrapped
	// message embeds the status code and raw body.
	ErrProvider = errors.New("provider request failed")

	// ErrStorage signifies a failure in the persistence layer, propagated to
	// the caller of persist/read.
	ErrStorage = errors.New("storage failure")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	ErrInternal = errors.New("internal server error")
)
