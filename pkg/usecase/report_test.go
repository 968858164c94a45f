package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

func TestReportUseCase_Generate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := clientInput("Ivan", "Petrov")
	in.Country = "Russia"
	client, err := env.uc.Client.CreateClient(ctx, in)
	gt.NoError(t, err).Required()
	_, err = env.uc.Document.Upload(ctx, client.ID, usecase.DocumentUpload{
		Name: "passport.pdf", ContentType: "application/pdf", Size: 1, Body: strings.NewReader("x"),
	})
	gt.NoError(t, err).Required()

	_, err = env.uc.RiskConfig.AddHighRiskIndustry(ctx, "Technology")
	gt.NoError(t, err).Required()

	var buf bytes.Buffer
	data, err := env.uc.Report.Generate(ctx, client.ID, &buf)
	gt.NoError(t, err).Required()

	gt.B(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
	gt.V(t, data.FileName()).Equal("KYC_Report_Ivan_Petrov.pdf")
	gt.A(t, data.Documents).Length(1)
	gt.V(t, data.Status).Equal(types.ReviewStatusOK)
	gt.V(t, data.GeneratedAt).Equal(testNow)

	// stored assessment and the re-evaluation against the current config differ
	gt.V(t, data.Client.Score).Equal(20)
	gt.V(t, data.Current.Score).Equal(40)
	gt.V(t, data.Current.Band).Equal(types.RiskBandYellow)
}

func TestReportUseCase_UnknownClient(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	_, err := env.uc.Report.Generate(context.Background(), types.NewClientID(), &buf)
	gt.Error(t, err).Is(usecase.ErrClientNotFound)
	gt.V(t, buf.Len()).Equal(0)
}
