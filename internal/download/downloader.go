// Package download implements the media download pipeline stage.
package download

import (
	"context"
	"log/slog"
	"strings"

	"searchtube/internal/config"
	"searchtube/internal/filter"
	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services/ytdlp"
	"searchtube/internal/stage"
)

// Tool fetches media for a video id and returns the artifact path.
type Tool interface {
	Download(ctx context.Context, id, downloadDir string) (string, error)
	Binary() string
}

// Downloader pulls accepted jobs through the external download tool.
type Downloader struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	tool   Tool
	policy *filter.Policy
}

// NewDownloader constructs the download handler using default dependencies.
func NewDownloader(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Downloader {
	return NewDownloaderWithDependencies(cfg, store, logger, ytdlp.NewService(cfg), filter.NewPolicy(cfg))
}

// NewDownloaderWithDependencies allows injecting all collaborators (used in tests).
func NewDownloaderWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, tool Tool, policy *filter.Policy) *Downloader {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "download")
	}
	return &Downloader{store: store, cfg: cfg, logger: stageLogger, tool: tool, policy: policy}
}

func (d *Downloader) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, d.logger)
	logger.Info("starting download", logging.String("video_id", job.ID))
	return nil
}

func (d *Downloader) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, d.logger)

	// The filter already ran at metadata time; re-check in case the denylist
	// changed between cycles or the row predates the policy.
	decision := d.policy.Evaluate(job.Keywords)
	if !decision.Accepted {
		if err := d.store.RecordRejected(ctx, job.ID, decision.Reason); err != nil {
			return err
		}
		job.Rejected = true
		job.RejectReason = decision.Reason
		logger.Info("job rejected before download", logging.String("reason", decision.Reason))
		return nil
	}

	artifact, err := d.tool.Download(ctx, job.ID, d.cfg.Paths.DownloadDir)
	if err != nil {
		return err
	}

	if err := d.store.RecordDownloaded(ctx, job.ID, artifact); err != nil {
		return err
	}
	job.Downloaded = true
	job.ArtifactPath = artifact
	logger.Info("download complete", logging.String("artifact", artifact))
	return nil
}

// HealthCheck verifies the download tool is available.
func (d *Downloader) HealthCheck(ctx context.Context) stage.Health {
	const name = "download"
	if d.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Paths.DownloadDir) == "" {
		return stage.Unhealthy(name, "download directory not configured")
	}
	if d.tool == nil {
		return stage.Unhealthy(name, "download tool unavailable")
	}
	if _, err := stage.RequireBinary(d.tool.Binary()); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
