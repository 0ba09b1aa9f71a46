// Package metadata implements the first pipeline stage: fetching video
// metadata and screening it against the filter policy.
package metadata

import (
	"context"
	"log/slog"
	"strings"

	"searchtube/internal/config"
	"searchtube/internal/filter"
	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services"
	"searchtube/internal/services/ytmeta"
	"searchtube/internal/stage"
)

// Fetcher retrieves metadata for a video id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (ytmeta.Metadata, error)
}

// Collector fetches metadata for pending jobs and applies the filter policy
// synchronously, so a screened-out job never becomes eligible for download.
type Collector struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	client Fetcher
	policy *filter.Policy
}

// NewCollector constructs the metadata handler using default dependencies.
func NewCollector(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Collector {
	return NewCollectorWithDependencies(cfg, store, logger, ytmeta.NewClient(cfg), filter.NewPolicy(cfg))
}

// NewCollectorWithDependencies allows injecting all collaborators (used in tests).
func NewCollectorWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, client Fetcher, policy *filter.Policy) *Collector {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "metadata")
	}
	return &Collector{store: store, cfg: cfg, logger: stageLogger, client: client, policy: policy}
}

func (c *Collector) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("collecting metadata", logging.String("video_id", job.ID))
	return nil
}

func (c *Collector) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)

	meta, err := c.client.Fetch(ctx, job.ID)
	if err != nil {
		return services.Wrap(
			services.ErrFetch,
			"metadata",
			"fetch",
			"metadata fetch failed; job will be retried on a later cycle",
			err,
		)
	}

	if err := c.store.RecordMetadata(ctx, job.ID, meta.Title, meta.Keywords); err != nil {
		return err
	}
	job.Title = meta.Title
	job.Keywords = meta.Keywords
	job.MetadataSet = true
	logger.Info("metadata recorded",
		logging.String("title", strings.TrimSpace(meta.Title)),
		logging.Int("keywords", len(meta.Keywords)),
	)

	decision := c.policy.Evaluate(meta.Keywords)
	if !decision.Accepted {
		if err := c.store.RecordRejected(ctx, job.ID, decision.Reason); err != nil {
			return err
		}
		job.Rejected = true
		job.RejectReason = decision.Reason
		logger.Info("job rejected by filter", logging.String("reason", decision.Reason))
	}
	return nil
}

// HealthCheck verifies the metadata endpoint configuration.
func (c *Collector) HealthCheck(ctx context.Context) stage.Health {
	const name = "metadata"
	if c.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(c.cfg.Metadata.BaseURL) == "" {
		return stage.Unhealthy(name, "metadata base url not configured")
	}
	if c.client == nil {
		return stage.Unhealthy(name, "metadata client unavailable")
	}
	return stage.Healthy(name)
}
