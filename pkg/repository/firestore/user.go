package firestore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CollectionUsers is the base name of the users collection
const CollectionUsers = "users"

type userDoc struct {
	ID           string    `firestore:"ID"`
	Email        string    `firestore:"Email"`
	PasswordHash string    `firestore:"PasswordHash"`
	Name         string    `firestore:"Name"`
	Role         string    `firestore:"Role"`
	CreatedAt    time.Time `firestore:"CreatedAt"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           types.UserID(d.ID),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         types.Role(d.Role),
		CreatedAt:    d.CreatedAt,
	}
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, CollectionUsers))
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := u.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	created := *u
	created.Email = strings.ToLower(u.Email)
	created.CreatedAt = time.Now().UTC()

	col := r.collection()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.Where("Email", "==", created.Email).Limit(1)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to look up user email")
		}
		if len(existing) > 0 {
			return goerr.Wrap(ErrAlreadyExists, "user email already registered", goerr.V("email", created.Email))
		}

		return tx.Create(col.Doc(created.ID.String()), &userDoc{
			ID:           created.ID.String(),
			Email:        created.Email,
			PasswordHash: created.PasswordHash,
			Name:         created.Name,
			Role:         created.Role.String(),
			CreatedAt:    created.CreatedAt,
		})
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "user already exists", goerr.V("id", u.ID))
		}
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", u.ID))
	}

	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	docSnap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var doc userDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.collection().Where("Email", "==", strings.ToLower(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user", goerr.V("email", email))
	}

	var doc userDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
	}
	return doc.toModel(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	users := []*model.User{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var doc userDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
		}
		users = append(users, doc.toModel())
	}

	slices.SortFunc(users, func(a, b *model.User) int {
		return cmp.Compare(a.Email, b.Email)
	})
	return users, nil
}
