package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/repository/memory"
	"github.com/secmon-lab/kyclytics/pkg/service/storage"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testEnv struct {
	uc    *usecase.UseCases
	repo  *memory.Memory
	blobs *storage.Memory
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()
	repo := memory.New()
	blobs := storage.NewMemory()
	opts = append([]usecase.Option{
		usecase.WithBlobStorage(blobs),
		usecase.WithClock(fixedClock),
	}, opts...)
	return &testEnv{
		uc:    usecase.New(repo, opts...),
		repo:  repo,
		blobs: blobs,
	}
}

func clientInput(first, last string) model.ClientInput {
	return model.ClientInput{
		FirstName:  first,
		LastName:   last,
		DOB:        "1985-04-12",
		Address:    "1-2-3 Marunouchi",
		Country:    "Japan",
		PostalCode: "100-0005",
		Job:        "Engineer",
		Industry:   "Technology",
	}
}

// seedClient stores a client directly with the given review date, bypassing scoring
func seedClient(t *testing.T, env *testEnv, first, last string, band types.RiskBand, nextReview time.Time) *model.Client {
	t.Helper()
	c := &model.Client{ID: types.NewClientID(), Band: band, NextReview: nextReview}
	c.ApplyInput(clientInput(first, last))
	created, err := env.repo.Client().Create(context.Background(), c)
	gt.NoError(t, err).Required()
	return created
}
