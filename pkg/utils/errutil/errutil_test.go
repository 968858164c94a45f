package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
)

func TestHandleHTTP_ClientError(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("first_name is required", goerr.V("field", "first_name")), http.StatusBadRequest)

	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.Value(t, w.Header().Get("Content-Type")).Equal("application/json")

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.Value(t, body["error"]).Equal("first_name is required")
}

func TestHandleHTTP_ServerErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("firestore: connection refused"), http.StatusInternalServerError)

	gt.Value(t, w.Code).Equal(http.StatusInternalServerError)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.Value(t, body["error"]).Equal("Internal Server Error")
}

func TestHandleHTTP_NilErrorWritesNothing(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
	gt.Number(t, w.Body.Len()).Equal(0)
}

func newSentryContext(t *testing.T) (context.Context, *sentry.MockTransport) {
	transport := &sentry.MockTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	gt.NoError(t, err).Required()
	hub := sentry.NewHub(client, sentry.NewScope())
	return sentry.SetHubOnContext(context.Background(), hub), transport
}

func TestHandle_ReportsValuesToSentry(t *testing.T) {
	ctx, transport := newSentryContext(t)

	errutil.Handle(ctx, goerr.New("rescore failed", goerr.V("client_id", "c-1")), "worker failed")

	events := transport.Events()
	gt.A(t, events).Length(1).Required()
	gt.V(t, events[0].Contexts["goerr"]["client_id"]).Equal(any("c-1"))
}

func TestHandleHTTP_ClientErrorIsNotReported(t *testing.T) {
	ctx, transport := newSentryContext(t)

	errutil.HandleHTTP(ctx, httptest.NewRecorder(), goerr.New("bad input"), http.StatusBadRequest)
	gt.A(t, transport.Events()).Length(0)

	errutil.HandleHTTP(ctx, httptest.NewRecorder(), goerr.New("db down"), http.StatusInternalServerError)
	gt.A(t, transport.Events()).Length(1)
}
