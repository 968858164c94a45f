package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/repository/firestore"
	"github.com/secmon-lab/kyclytics/pkg/repository/memory"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	return memory.New()
}

// newFirestoreRepo returns a repository isolated under a random collection prefix.
// Skips the test unless TEST_FIRESTORE_PROJECT_ID is set.
func newFirestoreRepo(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix("test_"+uuid.NewString()[:8]))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func runBothBackends(t *testing.T, run func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	t.Run("memory", func(t *testing.T) {
		run(t, newMemoryRepo)
	})
	t.Run("firestore", func(t *testing.T) {
		run(t, newFirestoreRepo)
	})
}
