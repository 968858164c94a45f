package http

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/safe"
)

// uploadFieldName is the multipart field carrying the document
const uploadFieldName = "file"

type documentResponse struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	SizeLabel  string    `json:"sizeLabel"`
	UploadedAt time.Time `json:"uploadDate"`
}

func toDocumentResponse(d *model.Document) documentResponse {
	return documentResponse{
		ID:         d.ID.String(),
		ClientID:   d.ClientID.String(),
		Name:       d.Name,
		Type:       d.ContentType,
		Size:       d.Size,
		SizeLabel:  d.SizeLabel(),
		UploadedAt: d.UploadedAt,
	}
}

func documentIDParam(r *http.Request) types.DocumentID {
	return types.DocumentID(chi.URLParam(r, "documentID"))
}

func (s *Server) listDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := s.uc.Document.List(r.Context(), clientIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toDocumentResponse(d)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// uploadDocumentHandler streams the "file" part of a multipart request into document storage
func (s *Server) uploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	// leave room for multipart framing so the use case sees the real file size
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxDocumentSize+1<<20)

	mr, err := r.MultipartReader()
	if err != nil {
		handleError(w, r, goerr.Wrap(errBadRequest, "multipart/form-data body required", goerr.V("reason", err.Error())))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			handleError(w, r, goerr.Wrap(errBadRequest, "no file uploaded"))
			return
		}
		if err != nil {
			handleError(w, r, uploadReadError(err))
			return
		}
		if part.FormName() != uploadFieldName || part.FileName() == "" {
			safe.Close(r.Context(), part)
			continue
		}

		doc, err := s.uc.Document.Upload(r.Context(), clientIDParam(r), usecase.DocumentUpload{
			Name:        part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        -1,
			Body:        part,
		})
		safe.Close(r.Context(), part)
		if err != nil {
			handleError(w, r, uploadReadError(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, toDocumentResponse(doc))
		return
	}
}

func uploadReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return goerr.Wrap(usecase.ErrFileTooLarge, "request body is too large", goerr.V("limit", maxErr.Limit))
	}
	return err
}

func (s *Server) downloadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, body, err := s.uc.Document.Open(r.Context(), clientIDParam(r), documentIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer safe.Close(r.Context(), body)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	if doc.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	safe.Copy(r.Context(), w, body)
}

func (s *Server) deleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Document.Delete(r.Context(), clientIDParam(r), documentIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}

// clientReportHandler renders the PDF report. The report is buffered so that a
// rendering failure can still produce a JSON error.
func (s *Server) clientReportHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data, err := s.uc.Report.Generate(r.Context(), clientIDParam(r), &buf)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": data.FileName()}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, buf.Bytes())
}
