package usecase

import (
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
)

type UseCases struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	blobs      interfaces.BlobStorage
	notifier   interfaces.ReviewNotifier
	now        func() time.Time

	Client     *ClientUseCase
	RiskConfig *RiskConfigUseCase
	Document   *DocumentUseCase
	Report     *ReportUseCase
	Dashboard  *DashboardUseCase
	Review     *ReviewUseCase
	User       *UserUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

// WithRiskConfig sets the bootstrap ruleset used while no config is persisted
func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func WithBlobStorage(blobs interfaces.BlobStorage) Option {
	return func(uc *UseCases) {
		uc.blobs = blobs
	}
}

func WithNotifier(notifier interfaces.ReviewNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.riskConfig == nil {
		uc.riskConfig = config.DefaultRiskConfig()
	}

	uc.RiskConfig = NewRiskConfigUseCase(repo, uc.riskConfig, uc.now)
	uc.Client = NewClientUseCase(repo, uc.RiskConfig, uc.blobs, uc.now)
	uc.Document = NewDocumentUseCase(repo, uc.blobs, uc.now)
	uc.Report = NewReportUseCase(repo, uc.RiskConfig, uc.now)
	uc.Dashboard = NewDashboardUseCase(repo, uc.now)
	uc.Review = NewReviewUseCase(repo, uc.notifier, uc.now)
	uc.User = NewUserUseCase(repo, uc.now)

	return uc
}
