package workflow

import (
	"context"
	"errors"
	"time"

	"searchtube/internal/logging"
)

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.stages) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(len(m.stages))
	m.mu.Unlock()

	for i := range m.stages {
		go m.runStage(runCtx, &m.stages[i])
	}

	return nil
}

// Stop terminates background processing and waits for the workers to exit.
// Workers observe cancellation at their idle points; a handler execution in
// flight runs to completion first.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) runStage(ctx context.Context, st *pipelineStage) {
	defer m.wg.Done()
	logger := st.logger

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := st.selector(ctx)
		if err != nil {
			m.setLastError(err)
			logger.Error("failed to fetch next queue job",
				logging.Error(err),
				logging.String(logging.FieldEventType, "queue_fetch_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"),
			)
			m.sleep(ctx, m.errorRetryInterval)
			continue
		}
		if job == nil {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		if err := m.processJob(ctx, st, job); err != nil && errors.Is(err, context.Canceled) {
			return
		}

		// Pace one unit of work per interval against the external tools.
		m.sleep(ctx, m.pollInterval)
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
