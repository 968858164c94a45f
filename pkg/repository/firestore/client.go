package firestore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CollectionClients is the base name of the clients collection
const CollectionClients = "clients"

// clientDoc is the Firestore document representation of model.Client
type clientDoc struct {
	ID          string    `firestore:"ID"`
	FirstName   string    `firestore:"FirstName"`
	LastName    string    `firestore:"LastName"`
	DOB         string    `firestore:"DOB"`
	Address     string    `firestore:"Address"`
	Country     string    `firestore:"Country"`
	PostalCode  string    `firestore:"PostalCode"`
	Job         string    `firestore:"Job"`
	Industry    string    `firestore:"Industry"`
	PEP         bool      `firestore:"PEP"`
	Score       int       `firestore:"Score"`
	Band        string    `firestore:"Band"`
	Factors     []string  `firestore:"Factors"`
	NextReview  time.Time `firestore:"NextReview"`
	LastUpdated time.Time `firestore:"LastUpdated"`
	CreatedAt   time.Time `firestore:"CreatedAt"`
}

func toClientDoc(c *model.Client) *clientDoc {
	return &clientDoc{
		ID:          c.ID.String(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DOB:         c.DOB,
		Address:     c.Address,
		Country:     c.Country,
		PostalCode:  c.PostalCode,
		Job:         c.Job,
		Industry:    c.Industry,
		PEP:         c.PEP,
		Score:       c.Score,
		Band:        c.Band.String(),
		Factors:     slices.Clone(c.Factors),
		NextReview:  c.NextReview,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}

func (d *clientDoc) toModel() *model.Client {
	factors := d.Factors
	if factors == nil {
		factors = []string{}
	}
	return &model.Client{
		ID:          types.ClientID(d.ID),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		DOB:         d.DOB,
		Address:     d.Address,
		Country:     d.Country,
		PostalCode:  d.PostalCode,
		Job:         d.Job,
		Industry:    d.Industry,
		PEP:         d.PEP,
		Score:       d.Score,
		Band:        types.RiskBand(d.Band),
		Factors:     factors,
		NextReview:  d.NextReview,
		LastUpdated: d.LastUpdated,
		CreatedAt:   d.CreatedAt,
	}
}

type clientRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newClientRepository(client *firestore.Client) *clientRepository {
	return &clientRepository{
		client: client,
	}
}

func (r *clientRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, CollectionClients))
}

func (r *clientRepository) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	if err := c.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid client ID")
	}

	now := time.Now().UTC()
	created := c.Clone()
	created.CreatedAt = now
	created.LastUpdated = now

	_, err := r.collection().Doc(created.ID.String()).Create(ctx, toClientDoc(created))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "client already exists", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to create client", goerr.V("id", c.ID))
	}

	return created, nil
}

func (r *clientRepository) Get(ctx context.Context, id types.ClientID) (*model.Client, error) {
	docSnap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get client", goerr.V("id", id))
	}

	var doc clientDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode client", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *clientRepository) List(ctx context.Context, filter model.ClientFilter) ([]*model.Client, error) {
	query := r.collection().Query
	if filter.Band != "" {
		query = query.Where("Band", "==", filter.Band.String())
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	clients := []*model.Client{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate clients")
		}

		var doc clientDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode client", goerr.V("doc_id", docSnap.Ref.ID))
		}

		c := doc.toModel()
		// name search has no Firestore equivalent, so it runs on the fetched set
		if !filter.Match(c) {
			continue
		}
		clients = append(clients, c)
	}

	slices.SortFunc(clients, func(a, b *model.Client) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, c *model.Client) (*model.Client, error) {
	docRef := r.collection().Doc(c.ID.String())

	var updated *model.Client
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to check client existence", goerr.V("id", c.ID))
		}

		var existing clientDoc
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode client", goerr.V("id", c.ID))
		}

		updated = c.Clone()
		updated.CreatedAt = existing.CreatedAt
		updated.LastUpdated = time.Now().UTC()

		return tx.Set(docRef, toClientDoc(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update client", goerr.V("id", c.ID))
	}

	return updated, nil
}

func (r *clientRepository) Delete(ctx context.Context, id types.ClientID) error {
	docRef := r.collection().Doc(id.String())

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check client existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete client", goerr.V("id", id))
	}

	return nil
}
