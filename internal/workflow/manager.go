package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"searchtube/internal/config"
	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Metadata      stage.Handler
	Download      stage.Handler
	Transcription stage.Handler
}

type pipelineStage struct {
	name     string
	handler  stage.Handler
	selector func(context.Context) (*queue.Job, error)
	logger   *slog.Logger
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg                *config.Config
	store              *queue.Store
	logger             *slog.Logger
	pollInterval       time.Duration
	errorRetryInterval time.Duration

	stages []pipelineStage

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// NewManager constructs a workflow manager and wires the stage set to the
// store selectors in pipeline order.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, stages StageSet) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:                cfg,
		store:              store,
		logger:             logger,
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
	}
	m.register("metadata", stages.Metadata, store.NextForMetadata)
	m.register("download", stages.Download, store.NextForDownload)
	m.register("transcription", stages.Transcription, store.NextForTranscription)
	return m
}

func (m *Manager) register(name string, handler stage.Handler, selector func(context.Context) (*queue.Job, error)) {
	if handler == nil {
		return
	}
	m.stages = append(m.stages, pipelineStage{
		name:     name,
		handler:  handler,
		selector: selector,
		logger:   logging.NewComponentLogger(m.logger, "workflow."+name),
	})
}

// Running reports whether background processing is active.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}
