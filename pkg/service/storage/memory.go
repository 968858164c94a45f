package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
)

// Memory keeps blobs in process memory (development and tests)
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ interfaces.BlobStorage = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		blobs: make(map[string][]byte),
	}
}

func (s *Memory) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return goerr.Wrap(err, "failed to read blob", goerr.V("key", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *Memory) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "blob not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Memory) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[key]; !ok {
		return goerr.Wrap(ErrNotFound, "blob not found", goerr.V("key", key))
	}
	delete(s.blobs, key)
	return nil
}

// Len returns the number of stored blobs
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
