// Package safe wraps I/O calls whose errors have no caller left to return to,
// typically while a response is already being streamed.
package safe

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
)

// peerGone reports errors caused by the other side hanging up, e.g. a browser
// cancelling a document download. They are expected and not reported.
func peerGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, context.Canceled)
}

func handle(ctx context.Context, err error, msg string) {
	if peerGone(err) {
		logging.From(ctx).Debug(msg, "error", err.Error())
		return
	}
	errutil.Handle(ctx, goerr.Wrap(err, msg), msg)
}

// Close closes c. Nil closers and already closed files are ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		handle(ctx, err, "failed to close")
	}
}

// Write writes data to w
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		handle(ctx, err, "failed to write")
	}
}

// Copy streams src into dst and returns the number of bytes written
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		handle(ctx, goerr.Wrap(err, "copy interrupted", goerr.V("written", n)), "failed to copy")
	}
	return n
}
