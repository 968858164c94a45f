package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/kyclytics/pkg/controller/http"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/repository/memory"
	"github.com/secmon-lab/kyclytics/pkg/service/storage"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

const (
	testEmail    = "admin@kyclytics.com"
	testPassword = "admin123"
)

type testServer struct {
	handler http.Handler
	uc      *usecase.UseCases
	repo    *memory.Memory
	blobs   *storage.Memory
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	blobs := storage.NewMemory()
	authUC, err := usecase.NewAuthUseCase(repo, []byte("http-test-secret"))
	gt.NoError(t, err).Required()

	uc := usecase.New(repo, usecase.WithBlobStorage(blobs), usecase.WithAuth(authUC))
	_, err = uc.User.CreateUser(ctx, usecase.UserInput{
		Email: testEmail, Password: testPassword, Name: "Admin", Role: types.RoleAdmin,
	})
	gt.NoError(t, err).Required()

	srv, err := httpctrl.New(uc)
	gt.NoError(t, err).Required()

	login, err := authUC.Login(ctx, testEmail, testPassword)
	gt.NoError(t, err).Required()

	return &testServer{
		handler: srv,
		uc:      uc,
		repo:    repo,
		blobs:   blobs,
		token:   login.Token,
	}
}

// do sends an authenticated request. body is JSON-encoded unless it is an io.Reader.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch v := body.(type) {
	case nil:
	case io.Reader:
		r = v
	default:
		data, err := json.Marshal(v)
		gt.NoError(t, err).Required()
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

// uploadRequest builds a multipart request carrying one file part
func (s *testServer) upload(t *testing.T, path, name, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	gt.NoError(t, err).Required()
	_, err = part.Write(content)
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type clientJSON struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Country    string   `json:"country"`
	Industry   string   `json:"industry"`
	Job        string   `json:"job"`
	PEP        bool     `json:"pep"`
	Score      int      `json:"score"`
	Band       string   `json:"band"`
	Factors    []string `json:"factors"`
	Status     string   `json:"status"`
	NextReview string   `json:"nextReview"`
}

func clientBody(first, last string) map[string]any {
	return map[string]any{
		"firstName":  first,
		"lastName":   last,
		"dob":        "1980-01-31",
		"address":    "10 Downing Street",
		"country":    "United Kingdom",
		"postalCode": "SW1A 2AA",
		"job":        "Engineer",
		"industry":   "Technology",
		"pep":        false,
	}
}

func (s *testServer) createClient(t *testing.T, body map[string]any) clientJSON {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/clients", body)
	gt.V(t, rec.Code).Equal(http.StatusCreated)
	return decode[clientJSON](t, rec)
}
