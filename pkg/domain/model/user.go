package model

import (
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// User is an operator of the application
type User struct {
	ID           types.UserID
	Email        string
	PasswordHash string `masq:"secret"`
	Name         string
	Role         types.Role
	CreatedAt    time.Time
}
