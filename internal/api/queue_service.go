package api

import (
	"context"

	"searchtube/internal/queue"
)

// QueueReader abstracts queue persistence interactions needed for API queries.
type QueueReader interface {
	List(ctx context.Context, states ...queue.State) ([]*queue.Job, error)
	Stats(ctx context.Context) (map[queue.State]int, error)
	GetByID(ctx context.Context, id string) (*queue.Job, error)
}

// QueueService exposes read-only queue operations returning API DTOs.
type QueueService struct {
	store QueueReader
}

// NewQueueService constructs a QueueService around the provided reader.
func NewQueueService(store QueueReader) *QueueService {
	if store == nil {
		return nil
	}
	return &QueueService{store: store}
}

// List returns queue jobs filtered by state.
func (s *QueueService) List(ctx context.Context, states ...queue.State) ([]QueueJob, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	jobs, err := s.store.List(ctx, states...)
	if err != nil {
		return nil, err
	}
	return FromQueueJobs(jobs), nil
}

// Stats returns queue summary counts keyed by state string.
func (s *QueueService) Stats(ctx context.Context) (map[string]int, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return MergeQueueStats(stats), nil
}

// Describe fetches a single queue job.
func (s *QueueService) Describe(ctx context.Context, id string) (*QueueJob, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	job, err := s.store.GetByID(ctx, id)
	if err != nil || job == nil {
		return nil, err
	}
	dto := FromQueueJob(job)
	return &dto, nil
}
