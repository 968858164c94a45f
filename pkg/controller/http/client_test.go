package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestClientLifecycle(t *testing.T) {
	s := newTestServer(t)

	body := clientBody("Ivan", "Petrov")
	body["pep"] = true
	body["country"] = "Russia"
	created := s.createClient(t, body)
	gt.V(t, created.Score).Equal(50)
	gt.V(t, created.Band).Equal("RED")
	gt.V(t, created.Status).Equal("OK")
	gt.A(t, created.Factors).Length(2)

	rec := s.do(t, http.MethodGet, "/api/clients/"+created.ID, nil)
	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.V(t, decode[clientJSON](t, rec).LastName).Equal("Petrov")

	body["pep"] = false
	body["country"] = "Japan"
	rec = s.do(t, http.MethodPut, "/api/clients/"+created.ID, body)
	gt.V(t, rec.Code).Equal(http.StatusOK)
	updated := decode[clientJSON](t, rec)
	gt.V(t, updated.Score).Equal(0)
	gt.V(t, updated.Band).Equal("GREEN")
	gt.V(t, updated.Factors).Equal([]string{})

	rec = s.do(t, http.MethodDelete, "/api/clients/"+created.ID, nil)
	gt.V(t, rec.Code).Equal(http.StatusOK)

	rec = s.do(t, http.MethodGet, "/api/clients/"+created.ID, nil)
	gt.V(t, rec.Code).Equal(http.StatusNotFound)
	gt.String(t, rec.Body.String()).Contains("client not found")
}

func TestCreateClientValidation(t *testing.T) {
	s := newTestServer(t)

	missing := clientBody("Ivan", "")
	badDate := clientBody("Ivan", "Petrov")
	badDate["dob"] = "31/01/1980"
	unknownField := clientBody("Ivan", "Petrov")
	unknownField["score"] = 99

	tests := []struct {
		name string
		body any
	}{
		{"missing last name", missing},
		{"bad date of birth", badDate},
		{"unknown field", unknownField},
		{"malformed json", strings.NewReader(`{"firstName":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/clients", tt.body)
			gt.V(t, rec.Code).Equal(http.StatusBadRequest)
			gt.String(t, rec.Body.String()).Contains(`"error"`)
		})
	}
}

func TestListClients(t *testing.T) {
	s := newTestServer(t)

	red := clientBody("Anna", "Schmidt")
	red["pep"] = true
	red["industry"] = "Casino"
	s.createClient(t, red)
	s.createClient(t, clientBody("Bruno", "Costa"))
	s.createClient(t, clientBody("Carla", "Smith"))

	tests := []struct {
		name  string
		query string
		want  []string
		code  int
	}{
		{"all", "", []string{"Costa", "Schmidt", "Smith"}, http.StatusOK},
		{"band filter", "?riskBand=RED", []string{"Schmidt"}, http.StatusOK},
		{"band all", "?riskBand=all", []string{"Costa", "Schmidt", "Smith"}, http.StatusOK},
		{"search", "?search=sm", []string{"Smith"}, http.StatusOK},
		{"status", "?status=OVERDUE", []string{}, http.StatusOK},
		{"invalid band", "?riskBand=PURPLE", nil, http.StatusBadRequest},
		{"invalid status", "?status=LATE", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/clients"+tt.query, nil)
			gt.V(t, rec.Code).Equal(tt.code)
			if tt.code != http.StatusOK {
				return
			}
			clients := decode[[]clientJSON](t, rec)
			names := make([]string, 0, len(clients))
			for _, c := range clients {
				names = append(names, c.LastName)
			}
			gt.V(t, names).Equal(tt.want)
		})
	}
}

func TestRescoreClient(t *testing.T) {
	s := newTestServer(t)

	body := clientBody("Kim", "Lee")
	body["country"] = "North Korea"
	created := s.createClient(t, body)
	gt.V(t, created.Score).Equal(20)

	rec := s.do(t, http.MethodDelete, "/api/risk-config/countries/North%20Korea", nil)
	gt.V(t, rec.Code).Equal(http.StatusOK)

	rec = s.do(t, http.MethodPost, "/api/clients/"+created.ID+"/rescore", nil)
	gt.V(t, rec.Code).Equal(http.StatusOK)
	rescored := decode[clientJSON](t, rec)
	gt.V(t, rescored.Score).Equal(0)
	gt.V(t, rescored.Country).Equal("North Korea")

	rec = s.do(t, http.MethodPost, "/api/clients/"+types.NewClientID().String()+"/rescore", nil)
	gt.V(t, rec.Code).Equal(http.StatusNotFound)
}
