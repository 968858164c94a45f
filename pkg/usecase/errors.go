package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrClientNotFound   = errors.New("client not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUserNotFound     = errors.New("user not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Upload errors
	ErrFileTooLarge         = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrStorageNotConfigured = errors.New("document storage is not configured")

	// Other errors
	ErrEmailTaken = errors.New("email is already registered")
)

// Context keys for error values
const (
	ClientIDKey    = "client_id"
	DocumentIDKey  = "document_id"
	EmailKey       = "email"
	ContentTypeKey = "content_type"
)
