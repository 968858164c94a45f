package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/service/storage"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the document blob store
type Storage struct {
	backend         string
	dir             string
	bucket          string
	prefix          string
	credentialsFile string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document storage backend (memory, local or gcs)",
			Category:    "Storage",
			Value:       "memory",
			Sources:     cli.EnvVars("KYCLYTICS_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-dir",
			Usage:       "Root directory of the local storage backend",
			Category:    "Storage",
			Value:       "./uploads",
			Sources:     cli.EnvVars("KYCLYTICS_STORAGE_DIR"),
			Destination: &x.dir,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("KYCLYTICS_GCS_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix inside the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("KYCLYTICS_GCS_PREFIX"),
			Destination: &x.prefix,
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account key file. Application default credentials are used when empty",
			Category:    "Storage",
			Sources:     cli.EnvVars("KYCLYTICS_GCS_CREDENTIALS"),
			Destination: &x.credentialsFile,
		},
	}
}

// Configure opens the blob store. The returned function releases it.
func (x *Storage) Configure(ctx context.Context) (interfaces.BlobStorage, func(), error) {
	switch x.backend {
	case "memory":
		logging.Default().Warn("Using in-memory document storage, uploads are lost on restart")
		return storage.NewMemory(), func() {}, nil

	case "local":
		s, err := storage.NewLocal(x.dir)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize local storage")
		}
		logging.Default().Info("Using local document storage", "dir", x.dir)
		return s, func() {}, nil

	case "gcs":
		if x.bucket == "" {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		var opts []storage.GCSOption
		if x.prefix != "" {
			opts = append(opts, storage.WithPrefix(x.prefix))
		}
		if x.credentialsFile != "" {
			opts = append(opts, storage.WithCredentialsFile(x.credentialsFile))
		}
		s, err := storage.NewGCS(ctx, x.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize GCS storage")
		}
		logging.Default().Info("Using GCS document storage", "bucket", x.bucket, "prefix", x.prefix)
		return s, func() {
			if err := s.Close(); err != nil {
				logging.Default().Error("failed to close GCS client", "error", err.Error())
			}
		}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "invalid storage backend", goerr.V(BackendKey, x.backend))
	}
}
