package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"syscall"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"github.com/secmon-lab/kyclytics/pkg/utils/safe"
)

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func captureLogs(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logging.With(context.Background(), logger), &buf
}

func TestCopy(t *testing.T) {
	ctx, logs := captureLogs(t)

	var dst bytes.Buffer
	n := safe.Copy(ctx, &dst, strings.NewReader("passport scan"))
	gt.V(t, n).Equal(int64(13))
	gt.V(t, dst.String()).Equal("passport scan")
	gt.V(t, logs.Len()).Equal(0)
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"peer hung up", syscall.EPIPE, `"level":"DEBUG"`},
		{"connection reset", syscall.ECONNRESET, `"level":"DEBUG"`},
		{"other failure", errors.New("disk full"), `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, logs := captureLogs(t)
			safe.Write(ctx, failingWriter{err: tt.err}, []byte("x"))
			gt.String(t, logs.String()).Contains(tt.level)
			gt.String(t, logs.String()).Contains("failed to write")
		})
	}
}

func TestClose(t *testing.T) {
	ctx, logs := captureLogs(t)

	c := &closer{}
	safe.Close(ctx, c)
	gt.B(t, c.closed).True()
	gt.V(t, logs.Len()).Equal(0)

	safe.Close(ctx, nil)
	safe.Write(ctx, nil, []byte("ignored"))
	gt.V(t, logs.Len()).Equal(0)

	safe.Close(ctx, &closer{err: errors.New("flush failed")})
	gt.String(t, logs.String()).Contains("failed to close")
}
