package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestRiskBand_IsValid(t *testing.T) {
	tests := []struct {
		name string
		band types.RiskBand
		want bool
	}{
		{name: "green", band: types.RiskBandGreen, want: true},
		{name: "yellow", band: types.RiskBandYellow, want: true},
		{name: "red", band: types.RiskBandRed, want: true},
		{name: "lowercase", band: types.RiskBand("red"), want: false},
		{name: "empty", band: types.RiskBand(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.band.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseRiskBand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.RiskBand
		wantErr bool
	}{
		{name: "valid green", input: "GREEN", want: types.RiskBandGreen},
		{name: "valid red", input: "RED", want: types.RiskBandRed},
		{name: "all is not a band", input: "ALL", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseRiskBand(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllRiskBands(t *testing.T) {
	bands := types.AllRiskBands()
	gt.A(t, bands).Length(3)
	gt.V(t, bands[0]).Equal(types.RiskBandGreen)
	gt.V(t, bands[2]).Equal(types.RiskBandRed)
}
