package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func validInput() model.ClientInput {
	return model.ClientInput{
		FirstName:  "Alice",
		LastName:   "Thompson",
		DOB:        "1985-04-12",
		Address:    "123 Maple Ave, London",
		Country:    "United Kingdom",
		PostalCode: "SW1A 1AA",
		Job:        "Software Engineer",
		Industry:   "Technology",
	}
}

func TestClientInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *model.ClientInput)
		wantErr error
	}{
		{name: "valid", mutate: func(in *model.ClientInput) {}},
		{
			name:    "missing first name",
			mutate:  func(in *model.ClientInput) { in.FirstName = "" },
			wantErr: model.ErrMissingRequired,
		},
		{
			name:    "blank industry",
			mutate:  func(in *model.ClientInput) { in.Industry = "   " },
			wantErr: model.ErrMissingRequired,
		},
		{
			name:    "bad date of birth",
			mutate:  func(in *model.ClientInput) { in.DOB = "12/04/1985" },
			wantErr: model.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestClient_ApplyAssessment(t *testing.T) {
	c := &model.Client{}
	c.ApplyInput(validInput())

	factors := []string{"High Risk Industry: Gambling (+20)"}
	next := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	c.ApplyAssessment(model.RiskAssessment{Score: 20, Band: types.RiskBandGreen, Factors: factors, NextReviewMonths: 24}, next)

	gt.V(t, c.Score).Equal(20)
	gt.V(t, c.Band).Equal(types.RiskBandGreen)
	gt.V(t, c.NextReview).Equal(next)

	factors[0] = "mutated"
	gt.V(t, c.Factors[0]).Equal("High Risk Industry: Gambling (+20)")
	gt.V(t, c.FullName()).Equal("Alice Thompson")
	gt.V(t, c.Profile()).Equal(model.ClientProfile{Country: "United Kingdom", Industry: "Technology", Job: "Software Engineer"})
}

func TestClientFilter_Match(t *testing.T) {
	c := &model.Client{FirstName: "Boris", LastName: "Ivanov", Band: types.RiskBandRed}

	gt.B(t, model.ClientFilter{}.Match(c)).True()
	gt.B(t, model.ClientFilter{Band: types.RiskBandRed}.Match(c)).True()
	gt.B(t, model.ClientFilter{Band: types.RiskBandGreen}.Match(c)).False()
	gt.B(t, model.ClientFilter{Search: "iva"}.Match(c)).True()
	gt.B(t, model.ClientFilter{Search: "BOR"}.Match(c)).True()
	gt.B(t, model.ClientFilter{Search: "alice"}.Match(c)).False()
	gt.B(t, model.ClientFilter{Band: types.RiskBandRed, Search: "alice"}.Match(c)).False()
}

func TestDocument_SizeLabel(t *testing.T) {
	d := &model.Document{Size: 1024 * 1024 * 3 / 2}
	gt.V(t, d.SizeLabel()).Equal("1.50 MB")
}

func TestDocumentStorageKey(t *testing.T) {
	key := model.DocumentStorageKey("c1", "d1", "../../etc/passport.pdf")
	gt.V(t, key).Equal("clients/c1/d1-passport.pdf")
}
