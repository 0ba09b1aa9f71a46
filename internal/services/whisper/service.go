// Package whisper wraps the external speech-to-text tool.
package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"searchtube/internal/config"
	"searchtube/internal/services"
)

// Service invokes the transcription binary on downloaded media.
type Service struct {
	binary        string
	model         string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		binary:  cfg.Transcriber.Binary,
		model:   cfg.Transcriber.Model,
		timeout: time.Duration(cfg.Transcriber.Timeout) * time.Second,
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

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.model
}

// Transcribe runs the tool against a media file and returns the transcript
// text. The tool writes a .txt next to the source; the text is read back and
// the caller decides where it lives permanently.
func (s *Service) Transcribe(ctx context.Context, sourcePath string) (string, error) {
	if sourcePath == "" {
		return "", services.Wrap(services.ErrValidation, "transcription", "run", "source path required", nil)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return "", services.Wrap(services.ErrTranscribe, "transcription", "prepare", fmt.Sprintf("stat source %s", sourcePath), err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outputDir := filepath.Dir(sourcePath)
	args := []string{
		sourcePath,
		"--model", s.model,
		"--output_format", "txt",
		"--output_dir", outputDir,
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		return "", services.Wrap(services.ErrTranscribe, "transcription", "run", fmt.Sprintf("transcribe %s", filepath.Base(sourcePath)), err)
	}

	producedPath := transcriptSibling(sourcePath)
	text, err := os.ReadFile(producedPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscribe, "transcription", "collect", fmt.Sprintf("read transcript %s", producedPath), err)
	}
	// The intermediate file is the tool's artifact, not ours.
	_ = os.Remove(producedPath)

	return string(text), nil
}

// transcriptSibling maps media.webm to media.txt in the same directory.
func transcriptSibling(sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(filepath.Dir(sourcePath), base+".txt")
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
