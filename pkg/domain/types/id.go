package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ClientID is the unique identifier of a client
type ClientID string

// NewClientID generates a new random ClientID
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// Validate checks if the ClientID is a valid UUID
func (id ClientID) Validate() error {
	return validateUUID("client", string(id))
}

func (id ClientID) String() string {
	return string(id)
}

// DocumentID is the unique identifier of a client document
type DocumentID string

// NewDocumentID generates a new random DocumentID
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// Validate checks if the DocumentID is a valid UUID
func (id DocumentID) Validate() error {
	return validateUUID("document", string(id))
}

func (id DocumentID) String() string {
	return string(id)
}

// UserID is the unique identifier of an application user
type UserID string

// NewUserID generates a new random UserID
func NewUserID() UserID {
	return UserID(uuid.NewString())
}

// Validate checks if the UserID is a valid UUID
func (id UserID) Validate() error {
	return validateUUID("user", string(id))
}

func (id UserID) String() string {
	return string(id)
}

func validateUUID(kind, v string) error {
	if v == "" {
		return goerr.New(kind + " ID cannot be empty")
	}
	if _, err := uuid.Parse(v); err != nil {
		return goerr.Wrap(err, kind+" ID must be a UUID", goerr.V("id", v))
	}
	return nil
}
