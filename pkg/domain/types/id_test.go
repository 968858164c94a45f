package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestClientID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.ClientID
		wantErr bool
	}{
		{"generated", types.NewClientID(), false},
		{"fixed uuid", "6f1c2d1e-8a4b-4c3d-9e2f-0a1b2c3d4e5f", false},
		{"empty", "", true},
		{"not a uuid", "client-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ClientID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewIDs_AreUnique(t *testing.T) {
	gt.V(t, types.NewDocumentID()).NotEqual(types.NewDocumentID())
	gt.V(t, types.NewUserID()).NotEqual(types.NewUserID())
	gt.NoError(t, types.NewDocumentID().Validate())
	gt.NoError(t, types.NewUserID().Validate())
}
