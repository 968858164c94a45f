package model

import (
	"fmt"
	"path"
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Document is a supporting file attached to a client
type Document struct {
	ID          types.DocumentID
	ClientID    types.ClientID
	Name        string
	ContentType string
	Size        int64
	StorageKey  string
	UploadedAt  time.Time
}

// SizeLabel renders the size the way the UI shows it, e.g. "1.25 MB"
func (d *Document) SizeLabel() string {
	return fmt.Sprintf("%.2f MB", float64(d.Size)/(1024*1024))
}

// DocumentStorageKey builds the blob key of a document
func DocumentStorageKey(clientID types.ClientID, docID types.DocumentID, name string) string {
	return path.Join("clients", clientID.String(), docID.String()+"-"+path.Base(name))
}
