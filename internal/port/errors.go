package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrContentConflict    = errors.New("file content changed since the proposal was made")
	ErrFilenameUnresolved = errors.New("could not determine a filename from the message")
	ErrUpstreamTimeout    = errors.New("upstream call timed out, retry the request")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")
	ErrGeneratorNotFound  = errors.New("no generator registered for intent")
)
