package model

import (
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Client is an onboarded customer under compliance review.
// Review status is deliberately absent: it is derived from NextReview on read.
type Client struct {
	ID          types.ClientID
	FirstName   string
	LastName    string
	DOB         string // YYYY-MM-DD
	Address     string
	Country     string
	PostalCode  string
	Job         string
	Industry    string
	PEP         bool
	Score       int
	Band        types.RiskBand
	Factors     []string
	NextReview  time.Time
	LastUpdated time.Time
	CreatedAt   time.Time
}

// ClientInput carries the operator-editable fields of a client
type ClientInput struct {
	FirstName  string
	LastName   string
	DOB        string
	Address    string
	Country    string
	PostalCode string
	Job        string
	Industry   string
	PEP        bool
}

// Validate checks the required fields of a client input
func (in *ClientInput) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"dob", in.DOB},
		{"address", in.Address},
		{"country", in.Country},
		{"postal_code", in.PostalCode},
		{"job", in.Job},
		{"industry", in.Industry},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return goerr.Wrap(ErrMissingRequired, "client field is required", goerr.V(FieldKey, f.name))
		}
	}

	if _, err := time.Parse(time.DateOnly, in.DOB); err != nil {
		return goerr.Wrap(ErrInvalidDate, "date of birth must be YYYY-MM-DD",
			goerr.V(FieldKey, "dob"), goerr.V("value", in.DOB))
	}

	return nil
}

// Profile returns the risk-relevant view of the input
func (in *ClientInput) Profile() ClientProfile {
	return ClientProfile{
		PEP:      in.PEP,
		Country:  in.Country,
		Industry: in.Industry,
		Job:      in.Job,
	}
}

// Profile returns the risk-relevant view of the client
func (c *Client) Profile() ClientProfile {
	return ClientProfile{
		PEP:      c.PEP,
		Country:  c.Country,
		Industry: c.Industry,
		Job:      c.Job,
	}
}

// Input returns the editable fields of the client
func (c *Client) Input() ClientInput {
	return ClientInput{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		DOB:        c.DOB,
		Address:    c.Address,
		Country:    c.Country,
		PostalCode: c.PostalCode,
		Job:        c.Job,
		Industry:   c.Industry,
		PEP:        c.PEP,
	}
}

// FullName returns "First Last"
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ApplyInput overwrites the editable fields of the client
func (c *Client) ApplyInput(in ClientInput) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.DOB = in.DOB
	c.Address = in.Address
	c.Country = in.Country
	c.PostalCode = in.PostalCode
	c.Job = in.Job
	c.Industry = in.Industry
	c.PEP = in.PEP
}

// ApplyAssessment records a risk assessment and the resulting review date
func (c *Client) ApplyAssessment(a RiskAssessment, nextReview time.Time) {
	c.Score = a.Score
	c.Band = a.Band
	c.Factors = slices.Clone(a.Factors)
	c.NextReview = nextReview
}

// Clone returns a deep copy of the client
func (c *Client) Clone() *Client {
	copied := *c
	copied.Factors = slices.Clone(c.Factors)
	return &copied
}

// ClientFilter narrows a client listing. Zero values mean "no filter".
type ClientFilter struct {
	Band   types.RiskBand
	Search string // case-insensitive substring of first or last name
}

// Match reports whether the client satisfies the filter
func (f ClientFilter) Match(c *Client) bool {
	if f.Band != "" && c.Band != f.Band {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.FirstName), q) &&
			!strings.Contains(strings.ToLower(c.LastName), q) {
			return false
		}
	}
	return true
}
