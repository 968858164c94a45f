package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestParseReviewStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ReviewStatus
		wantErr bool
	}{
		{name: "ok", input: "OK", want: types.ReviewStatusOK},
		{name: "due soon", input: "DUE_SOON", want: types.ReviewStatusDueSoon},
		{name: "overdue", input: "OVERDUE", want: types.ReviewStatusOverdue},
		{name: "space instead of underscore", input: "DUE SOON", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseReviewStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestReviewStatus_NeedsAttention(t *testing.T) {
	gt.B(t, types.ReviewStatusOK.NeedsAttention()).False()
	gt.B(t, types.ReviewStatusDueSoon.NeedsAttention()).True()
	gt.B(t, types.ReviewStatusOverdue.NeedsAttention()).True()
}

func TestAllReviewStatuses(t *testing.T) {
	statuses := types.AllReviewStatuses()
	gt.A(t, statuses).Length(3)

	for _, status := range statuses {
		gt.B(t, status.IsValid()).
			Describef("Status %s should be valid", status).
			True()
	}
}
