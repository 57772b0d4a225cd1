package dataset

import (
	"context"

	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/majors"
)

// Fetcher downloads a dataset object by key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// LoadCatalog returns the majors catalog for the given configuration.
// With the remote source disabled it returns the embedded catalog. With it
// enabled it downloads the configured object; any failure (missing object,
// bad credentials, invalid JSON) falls back to the embedded catalog so a
// broken bucket never takes the service down.
func LoadCatalog(ctx context.Context, cfg config.DatasetConfig, log *logger.Logger) (*majors.Catalog, error) {
	log = log.WithModule("dataset")

	if !cfg.Enabled {
		return majors.Default()
	}

	client, err := NewClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warnf("Remote dataset misconfigured, using embedded catalog")
		return majors.Default()
	}

	return load(ctx, client, cfg.ObjectKey, log)
}

func load(ctx context.Context, f Fetcher, key string, log *logger.Logger) (*majors.Catalog, error) {
	data, err := f.Fetch(ctx, key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warnf("Remote dataset fetch failed, using embedded catalog")
		return majors.Default()
	}

	catalog, err := majors.New(data)
	if err != nil {
		log.WithError(err).WithField("key", key).Warnf("Remote dataset invalid, using embedded catalog")
		return majors.Default()
	}

	log.WithField("majors", catalog.Len()).Infof("Loaded majors catalog from remote dataset")
	return catalog, nil
}
