package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/utils/async"
)

type ctxKey struct{}

func TestDispatch_OutlivesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "carried"))
	done := make(chan error, 1)
	release := make(chan struct{})

	async.Dispatch(ctx, func(ctx context.Context) error {
		<-release
		if v, _ := ctx.Value(ctxKey{}).(string); v != "carried" {
			done <- errors.New("context value lost")
			return nil
		}
		done <- ctx.Err()
		return nil
	})

	cancel()
	close(release)

	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not run")
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	done := make(chan struct{})

	async.Dispatch(context.Background(), func(ctx context.Context) error {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not run")
	}
}
