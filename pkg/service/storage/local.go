package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/utils/safe"
)

// Local stores blobs as files under a root directory
type Local struct {
	root string
}

var _ interfaces.BlobStorage = &Local{}

// NewLocal creates the root directory if needed
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, goerr.New("local storage root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage root", goerr.V("root", root))
	}
	return &Local{root: root}, nil
}

// path resolves key under root and refuses keys escaping it
func (s *Local) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", goerr.New("invalid storage key", goerr.V("key", key))
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *Local) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return goerr.Wrap(err, "failed to create blob directory", goerr.V("key", key))
	}

	// write to a temp file first so a failed upload never leaves a partial blob
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("key", key))
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		safe.Close(ctx, tmp)
		return goerr.Wrap(err, "failed to write blob", goerr.V("key", key))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close blob", goerr.V("key", key))
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return goerr.Wrap(err, "failed to move blob into place", goerr.V("key", key))
	}

	return nil
}

func (s *Local) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is confined to the storage root
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "blob not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open blob", goerr.V("key", key))
	}
	return f, nil
}

func (s *Local) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(ErrNotFound, "blob not found", goerr.V("key", key))
		}
		return goerr.Wrap(err, "failed to delete blob", goerr.V("key", key))
	}
	return nil
}
