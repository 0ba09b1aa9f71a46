package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services"
)

func (m *Manager) processJob(ctx context.Context, st *pipelineStage, job *queue.Job) error {
	requestID := uuid.NewString()
	stageCtx := services.WithRequestID(services.WithStage(services.WithJobID(ctx, job.ID), st.name), requestID)
	logger := logging.WithContext(stageCtx, st.logger)

	start := time.Now()
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("video_id", job.ID),
	)

	if err := st.handler.Prepare(stageCtx, job); err != nil {
		return m.handleStageFailure(stageCtx, st, job, err)
	}
	if err := st.handler.Execute(stageCtx, job); err != nil {
		return m.handleStageFailure(stageCtx, st, job, err)
	}

	m.setLastJob(job)
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("state", string(job.State())),
		logging.Duration("stage_duration", time.Since(start)),
	)
	return nil
}

// handleStageFailure logs and records one failed execution. The job's stage
// flags stay untouched, so the same selector re-offers it on a later cycle;
// retries are unbounded and uniform. Contract violations (unknown id,
// invalid transition) are logged louder since they indicate a bug, but the
// worker keeps its loop either way.
func (m *Manager) handleStageFailure(ctx context.Context, st *pipelineStage, job *queue.Job, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	m.setLastError(err)
	logger := logging.WithContext(ctx, st.logger)

	if errors.Is(err, queue.ErrNotFound) || errors.Is(err, queue.ErrInvalidTransition) {
		logger.Error("stage hit a store contract violation",
			logging.Error(err),
			logging.String(logging.FieldEventType, "stage_contract_violation"),
			logging.String("video_id", job.ID),
		)
		return nil
	}

	logger.Warn("stage failed; job left for retry",
		logging.Error(err),
		logging.String(logging.FieldEventType, "stage_failed"),
		logging.String("video_id", job.ID),
		logging.Bool("retryable", services.Retryable(err)),
	)
	if recErr := m.store.RecordFailure(ctx, job.ID, err.Error()); recErr != nil {
		logger.Error("failed to record stage failure", logging.Error(recErr))
	}
	return nil
}
