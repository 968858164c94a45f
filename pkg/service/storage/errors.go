package storage

import "github.com/secmon-lab/kyclytics/pkg/domain/interfaces"

// ErrNotFound is reported when a blob does not exist
var ErrNotFound = interfaces.ErrNotFound
