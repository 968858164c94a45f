package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// RiskFile holds the CLI flag pointing at the bootstrap risk config
type RiskFile struct {
	path string
}

func (x *RiskFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "risk-config",
			Aliases:     []string{"c"},
			Usage:       "Risk config TOML file. Built-in defaults are used when empty",
			Sources:     cli.EnvVars("KYCLYTICS_RISK_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured file path
func (x *RiskFile) Path() string {
	return x.path
}

// Configure loads the risk config file, or returns the built-in defaults when no file is set
func (x *RiskFile) Configure() (*domainConfig.RiskConfig, error) {
	if x.path == "" {
		return domainConfig.DefaultRiskConfig(), nil
	}
	return LoadRiskConfig(x.path)
}

// riskFile is the TOML layout. Every member is optional; what is missing keeps
// the built-in default.
type riskFile struct {
	Weights            *riskFileWeights    `toml:"weights"`
	Thresholds         *riskFileThresholds `toml:"thresholds"`
	ReviewMonths       map[string]int      `toml:"review_months"`
	HighRiskCountries  *[]string           `toml:"high_risk_countries"`
	HighRiskIndustries *[]string           `toml:"high_risk_industries"`
	CashIntensiveJobs  *[]string           `toml:"cash_intensive_jobs"`
}

type riskFileWeights struct {
	PEP              *int `toml:"pep"`
	HighRiskCountry  *int `toml:"high_risk_country"`
	HighRiskIndustry *int `toml:"high_risk_industry"`
	CashIntensiveJob *int `toml:"cash_intensive_job"`
}

type riskFileThresholds struct {
	Medium *int `toml:"medium"`
	High   *int `toml:"high"`
}

func overrideInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func (f *riskFile) toPatch(base *domainConfig.RiskConfig) *domainConfig.RiskConfigPatch {
	patch := &domainConfig.RiskConfigPatch{
		HighRiskCountries:  f.HighRiskCountries,
		HighRiskIndustries: f.HighRiskIndustries,
		CashIntensiveJobs:  f.CashIntensiveJobs,
	}

	if f.Weights != nil {
		w := base.Weights
		overrideInt(&w.PEP, f.Weights.PEP)
		overrideInt(&w.HighRiskCountry, f.Weights.HighRiskCountry)
		overrideInt(&w.HighRiskIndustry, f.Weights.HighRiskIndustry)
		overrideInt(&w.CashIntensiveJob, f.Weights.CashIntensiveJob)
		patch.Weights = &w
	}
	if f.Thresholds != nil {
		th := base.Thresholds
		overrideInt(&th.Medium, f.Thresholds.Medium)
		overrideInt(&th.High, f.Thresholds.High)
		patch.Thresholds = &th
	}
	if f.ReviewMonths != nil {
		months := base.ReviewMonths.Clone()
		for band, n := range f.ReviewMonths {
			months[types.RiskBand(strings.ToUpper(band))] = n
		}
		patch.ReviewMonths = months
	}

	return patch
}

// LoadRiskConfig reads a risk config TOML file over the built-in defaults and validates the result
func LoadRiskConfig(path string) (*domainConfig.RiskConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "risk config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read risk config file", goerr.V(ConfigPathKey, path))
	}

	cfg, err := ParseRiskConfig(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load risk config", goerr.V(ConfigPathKey, path))
	}
	return cfg, nil
}

// ParseRiskConfig decodes TOML risk config data. Unknown keys are rejected.
func ParseRiskConfig(data []byte) (*domainConfig.RiskConfig, error) {
	var file riskFile
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown keys in risk config", goerr.V("details", strictErr.String()))
		}
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML risk config", goerr.V("reason", err.Error()))
	}

	base := domainConfig.DefaultRiskConfig()
	cfg := file.toPatch(base).Apply(base)
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "risk config validation failed")
	}
	return cfg, nil
}

// EncodeRiskConfig renders cfg in the file layout read by ParseRiskConfig
func EncodeRiskConfig(cfg *domainConfig.RiskConfig) ([]byte, error) {
	months := make(map[string]int, len(cfg.ReviewMonths))
	for band, n := range cfg.ReviewMonths {
		months[band.String()] = n
	}
	file := riskFile{
		Weights: &riskFileWeights{
			PEP:              &cfg.Weights.PEP,
			HighRiskCountry:  &cfg.Weights.HighRiskCountry,
			HighRiskIndustry: &cfg.Weights.HighRiskIndustry,
			CashIntensiveJob: &cfg.Weights.CashIntensiveJob,
		},
		Thresholds: &riskFileThresholds{
			Medium: &cfg.Thresholds.Medium,
			High:   &cfg.Thresholds.High,
		},
		ReviewMonths:       months,
		HighRiskCountries:  &cfg.HighRiskCountries,
		HighRiskIndustries: &cfg.HighRiskIndustries,
		CashIntensiveJobs:  &cfg.CashIntensiveJobs,
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode risk config")
	}
	return data, nil
}
