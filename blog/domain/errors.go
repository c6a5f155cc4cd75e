package domain

import "errors"

// Error taxonomy shared by the generator, the manifest builder and the relay.
// Concrete errors wrap one of these so callers can test with errors.Is.
var (
	ErrNetwork      = errors.New("network error")
	ErrParse        = errors.New("parse error")
	ErrFileSystem   = errors.New("filesystem error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)
