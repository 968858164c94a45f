package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionSettings = "settings"
	riskConfigDocID    = "risk_config"
)

type riskConfigDoc struct {
	Weights struct {
		PEP              int `firestore:"pep"`
		HighRiskCountry  int `firestore:"highRiskCountry"`
		HighRiskIndustry int `firestore:"highRiskIndustry"`
		CashIntensiveJob int `firestore:"cashIntensiveJob"`
	} `firestore:"weights"`
	Thresholds struct {
		Medium int `firestore:"medium"`
		High   int `firestore:"high"`
	} `firestore:"thresholds"`
	ReviewMonths       map[string]int `firestore:"reviewMonths"`
	HighRiskCountries  []string       `firestore:"highRiskCountries"`
	HighRiskIndustries []string       `firestore:"highRiskIndustries"`
	CashIntensiveJobs  []string       `firestore:"cashIntensiveJobs"`
	UpdatedAt          time.Time      `firestore:"updatedAt"`
}

func toRiskConfigDoc(c *config.RiskConfig) *riskConfigDoc {
	doc := &riskConfigDoc{
		ReviewMonths:       make(map[string]int, len(c.ReviewMonths)),
		HighRiskCountries:  c.HighRiskCountries,
		HighRiskIndustries: c.HighRiskIndustries,
		CashIntensiveJobs:  c.CashIntensiveJobs,
		UpdatedAt:          c.UpdatedAt,
	}
	doc.Weights.PEP = c.Weights.PEP
	doc.Weights.HighRiskCountry = c.Weights.HighRiskCountry
	doc.Weights.HighRiskIndustry = c.Weights.HighRiskIndustry
	doc.Weights.CashIntensiveJob = c.Weights.CashIntensiveJob
	doc.Thresholds.Medium = c.Thresholds.Medium
	doc.Thresholds.High = c.Thresholds.High
	for band, months := range c.ReviewMonths {
		doc.ReviewMonths[band.String()] = months
	}
	return doc
}

func (d *riskConfigDoc) toModel() *config.RiskConfig {
	c := &config.RiskConfig{
		Weights: config.Weights{
			PEP:              d.Weights.PEP,
			HighRiskCountry:  d.Weights.HighRiskCountry,
			HighRiskIndustry: d.Weights.HighRiskIndustry,
			CashIntensiveJob: d.Weights.CashIntensiveJob,
		},
		Thresholds: config.Thresholds{
			Medium: d.Thresholds.Medium,
			High:   d.Thresholds.High,
		},
		ReviewMonths:       make(config.ReviewMonths, len(d.ReviewMonths)),
		HighRiskCountries:  nonNil(d.HighRiskCountries),
		HighRiskIndustries: nonNil(d.HighRiskIndustries),
		CashIntensiveJobs:  nonNil(d.CashIntensiveJobs),
		UpdatedAt:          d.UpdatedAt,
	}
	for band, months := range d.ReviewMonths {
		c.ReviewMonths[types.RiskBand(band)] = months
	}
	return c
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

type riskConfigRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskConfigRepository(client *firestore.Client) *riskConfigRepository {
	return &riskConfigRepository{
		client: client,
	}
}

func (r *riskConfigRepository) docRef() *firestore.DocumentRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, collectionSettings)).Doc(riskConfigDocID)
}

func (r *riskConfigRepository) Get(ctx context.Context) (*config.RiskConfig, error) {
	docSnap, err := r.docRef().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk config not found")
		}
		return nil, goerr.Wrap(err, "failed to get risk config")
	}

	var doc riskConfigDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk config")
	}
	return doc.toModel(), nil
}

func (r *riskConfigRepository) Put(ctx context.Context, cfg *config.RiskConfig) (*config.RiskConfig, error) {
	stored := cfg.Clone()
	stored.UpdatedAt = time.Now().UTC()

	if _, err := r.docRef().Set(ctx, toRiskConfigDoc(stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put risk config")
	}
	return stored, nil
}

func (r *riskConfigRepository) Update(ctx context.Context, initial *config.RiskConfig, fn func(cfg *config.RiskConfig) error) (*config.RiskConfig, error) {
	ref := r.docRef()

	var result *config.RiskConfig
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var working *config.RiskConfig

		docSnap, err := tx.Get(ref)
		switch {
		case err == nil:
			var doc riskConfigDoc
			if err := docSnap.DataTo(&doc); err != nil {
				return goerr.Wrap(err, "failed to decode risk config")
			}
			working = doc.toModel()
		case status.Code(err) == codes.NotFound && initial != nil:
			working = initial.Clone()
		case status.Code(err) == codes.NotFound:
			return goerr.Wrap(ErrNotFound, "risk config not found and no initial config given")
		default:
			return goerr.Wrap(err, "failed to get risk config")
		}

		if err := fn(working); err != nil {
			return err
		}

		working.UpdatedAt = time.Now().UTC()
		result = working
		return tx.Set(ref, toRiskConfigDoc(working))
	})
	if err != nil {
		return nil, err
	}

	return result.Clone(), nil
}
