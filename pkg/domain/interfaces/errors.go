package interfaces

import "errors"

// Errors every repository backend reports through wrapping, so that callers
// can test them with errors.Is regardless of the backend in use.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
