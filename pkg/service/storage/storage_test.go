package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/service/storage"
	"google.golang.org/api/option"
)

func runBlobStorageTest(t *testing.T, newStorage func(t *testing.T) interfaces.BlobStorage) {
	t.Helper()

	t.Run("Put then Get returns the same bytes", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()
		key := "clients/" + uuid.NewString() + "/passport.pdf"

		gt.NoError(t, s.Put(ctx, key, "application/pdf", bytes.NewReader([]byte("%PDF-1.4 test")))).Required()

		r, err := s.Get(ctx, key)
		gt.NoError(t, err).Required()
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("%PDF-1.4 test")
	})

	t.Run("Put overwrites", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()
		key := "clients/" + uuid.NewString() + "/id.png"

		gt.NoError(t, s.Put(ctx, key, "image/png", bytes.NewReader([]byte("v1")))).Required()
		gt.NoError(t, s.Put(ctx, key, "image/png", bytes.NewReader([]byte("v2")))).Required()

		r, err := s.Get(ctx, key)
		gt.NoError(t, err).Required()
		defer r.Close()
		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("v2")
	})

	t.Run("Delete then Get is ErrNotFound", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()
		key := "clients/" + uuid.NewString() + "/bill.jpg"

		gt.NoError(t, s.Put(ctx, key, "image/jpeg", bytes.NewReader([]byte("x")))).Required()
		gt.NoError(t, s.Delete(ctx, key)).Required()

		_, err := s.Get(ctx, key)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		gt.Error(t, s.Delete(ctx, key)).Is(interfaces.ErrNotFound)
	})
}

func TestLocal(t *testing.T) {
	runBlobStorageTest(t, func(t *testing.T) interfaces.BlobStorage {
		s, err := storage.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()
		return s
	})
}

func TestMemory(t *testing.T) {
	runBlobStorageTest(t, func(t *testing.T) interfaces.BlobStorage {
		return storage.NewMemory()
	})
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocal(filepath.Join(root, "blobs"))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	for _, key := range []string{"../outside.txt", "/etc/passwd", "a/../../outside.txt", ""} {
		gt.Error(t, s.Put(ctx, key, "text/plain", bytes.NewReader([]byte("x"))))
	}

	_, err = os.Stat(filepath.Join(root, "outside.txt"))
	gt.Bool(t, os.IsNotExist(err)).True()
}

func TestGCS(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set")
	}

	runBlobStorageTest(t, func(t *testing.T) interfaces.BlobStorage {
		s, err := storage.NewGCS(context.Background(), bucket, storage.WithPrefix("test/"+uuid.NewString()))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			_ = s.Close()
		})
		return s
	})
}

// brokenReader yields some bytes and then fails, like an upload cut off at the size limit
type brokenReader struct {
	sent bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, errors.New("upload exceeds limit")
	}
	r.sent = true
	return copy(p, "%PDF-1.4 partial"), nil
}

func TestGCS_FailedCopyDoesNotCommitObject(t *testing.T) {
	var committed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			return
		}
		committed.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bucket":"kyc","name":"blob"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := storage.NewGCS(ctx, "kyc", storage.WithClientOptions(
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	))
	gt.NoError(t, err).Required()
	defer func() {
		_ = s.Close()
	}()

	err = s.Put(ctx, "clients/c1/big.pdf", "application/pdf", &brokenReader{})
	gt.Error(t, err)
	gt.N(t, committed.Load()).Equal(0)
}
