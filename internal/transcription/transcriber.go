// Package transcription implements the final pipeline stage: turning
// downloaded media into persisted transcript text.
package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"searchtube/internal/config"
	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services"
	"searchtube/internal/services/whisper"
	"searchtube/internal/stage"
)

// Tool converts a media file into transcript text.
type Tool interface {
	Transcribe(ctx context.Context, sourcePath string) (string, error)
	Binary() string
}

// Transcriber runs speech-to-text over downloaded artifacts.
type Transcriber struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	tool   Tool
}

// NewTranscriber constructs the transcription handler using default dependencies.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Transcriber {
	return NewTranscriberWithDependencies(cfg, store, logger, whisper.NewService(cfg))
}

// NewTranscriberWithDependencies allows injecting the tool (used in tests).
func NewTranscriberWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, tool Tool) *Transcriber {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = logging.NewComponentLogger(stageLogger, "transcription")
	}
	return &Transcriber{store: store, cfg: cfg, logger: stageLogger, tool: tool}
}

func (t *Transcriber) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)
	logger.Info("starting transcription", logging.String("video_id", job.ID))
	return nil
}

func (t *Transcriber) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)

	source := job.ArtifactPath
	if source == "" {
		// Older rows may predate artifact tracking; fall back to convention.
		located, err := queue.FindArtifact(t.cfg.Paths.DownloadDir, job.ID)
		if err != nil {
			return services.Wrap(
				services.ErrTranscribe,
				"transcription",
				"locate",
				"downloaded artifact missing; job will be retried on a later cycle",
				err,
			)
		}
		source = located
	}

	text, err := t.tool.Transcribe(ctx, source)
	if err != nil {
		return err
	}

	target := queue.TranscriptPath(t.cfg.Paths.TranscriptDir, job.ID)
	if err := os.MkdirAll(t.cfg.Paths.TranscriptDir, 0o755); err != nil {
		return services.Wrap(services.ErrTranscribe, "transcription", "persist", "ensure transcript directory", err)
	}
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return services.Wrap(services.ErrTranscribe, "transcription", "persist", fmt.Sprintf("write transcript %s", target), err)
	}

	if err := t.store.RecordTranscribed(ctx, job.ID, target); err != nil {
		return err
	}
	job.Transcribed = true
	job.TranscriptPath = target
	logger.Info("transcription complete", logging.String("transcript", target))
	return nil
}

// HealthCheck verifies the transcription tool is available.
func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcription"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(t.cfg.Paths.TranscriptDir) == "" {
		return stage.Unhealthy(name, "transcript directory not configured")
	}
	if t.tool == nil {
		return stage.Unhealthy(name, "transcription tool unavailable")
	}
	if _, err := stage.RequireBinary(t.tool.Binary()); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
