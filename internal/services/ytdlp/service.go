// Package ytdlp wraps the external media download tool.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"searchtube/internal/config"
	"searchtube/internal/queue"
	"searchtube/internal/services"
	"searchtube/internal/services/ytmeta"
)

// Service invokes the download binary for queued videos.
type Service struct {
	binary        string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a download service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		binary:  cfg.Downloader.Binary,
		timeout: time.Duration(cfg.Downloader.Timeout) * time.Second,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the configured binary name for health reporting.
func (s *Service) Binary() string {
	return s.binary
}

// Download fetches the media for a video id into downloadDir and returns the
// final artifact path. The tool chooses the container, so the artifact is
// located by id prefix after the command completes.
func (s *Service) Download(ctx context.Context, id, downloadDir string) (string, error) {
	if id == "" {
		return "", services.Wrap(services.ErrValidation, "download", "run", "video id required", nil)
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrDownload, "download", "prepare", "ensure download directory", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outputTemplate := filepath.Join(downloadDir, id+".%(ext)s")
	args := []string{
		"--no-progress",
		"--no-playlist",
		"-o", outputTemplate,
		ytmeta.WatchURL(id),
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		return "", services.Wrap(services.ErrDownload, "download", "run", fmt.Sprintf("download %s", id), err)
	}

	artifact, err := queue.FindArtifact(downloadDir, id)
	if err != nil {
		return "", services.Wrap(services.ErrDownload, "download", "locate", fmt.Sprintf("locate artifact for %s", id), err)
	}
	return artifact, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
