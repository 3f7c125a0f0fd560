package bootstrap

import (
	"context"

	infraes "github.com/jonesrussell/cityvoice/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/config"
	"github.com/jonesrussell/cityvoice/internal/search"
)

// SetupSearch connects to Elasticsearch and ensures the complaint index.
// It returns nil when search is disabled or the cluster cannot be reached.
func SetupSearch(ctx context.Context, cfg *config.Config, log infralogger.Logger) *search.Index {
	if !cfg.Elasticsearch.Enabled {
		return nil
	}

	client, err := infraes.NewClient(ctx, cfg.Elasticsearch, log)
	if err != nil {
		log.Warn("Elasticsearch not available, search disabled", infralogger.Error(err))
		return nil
	}

	index := search.NewIndex(client, cfg.Elasticsearch.Index, log)
	if ensureErr := index.EnsureIndex(ctx); ensureErr != nil {
		log.Warn("Search index setup failed, search disabled",
			infralogger.String("index", cfg.Elasticsearch.Index),
			infralogger.Error(ensureErr),
		)
		return nil
	}
	return index
}
