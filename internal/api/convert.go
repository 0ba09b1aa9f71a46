package api

import (
	"sort"

	"searchtube/internal/queue"
	"searchtube/internal/workflow"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FromQueueJob converts a queue record to its API representation.
func FromQueueJob(job *queue.Job) QueueJob {
	if job == nil {
		return QueueJob{}
	}

	dto := QueueJob{
		ID:             job.ID,
		Title:          job.Title,
		Keywords:       job.Keywords,
		State:          string(job.State()),
		RejectReason:   job.RejectReason,
		ArtifactPath:   job.ArtifactPath,
		TranscriptPath: job.TranscriptPath,
		LastError:      job.LastError,
		Attempts:       job.Attempts,
	}
	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		dto.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromQueueJobs converts a slice of queue records into API DTOs.
func FromQueueJobs(jobs []*queue.Job) []QueueJob {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]QueueJob, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, FromQueueJob(job))
	}
	return out
}

// MergeQueueStats normalizes stats so every known state appears, even at zero.
func MergeQueueStats(stats map[queue.State]int) map[string]int {
	merged := make(map[string]int, len(queue.AllStates()))
	for _, state := range queue.AllStates() {
		merged[string(state)] = 0
	}
	for state, count := range stats {
		merged[string(state)] = count
	}
	return merged
}

// FromStatusSummary converts workflow diagnostics into the API shape, with
// stage health sorted by name for stable output.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:    summary.Running,
		QueueStats: MergeQueueStats(summary.QueueStats),
		LastError:  summary.LastError,
	}
	if summary.LastJob != nil {
		dto := FromQueueJob(summary.LastJob)
		status.LastJob = &dto
	}
	names := make([]string, 0, len(summary.StageHealth))
	for name := range summary.StageHealth {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		health := summary.StageHealth[name]
		status.StageHealth = append(status.StageHealth, StageHealth{
			Name:   health.Name,
			Ready:  health.Ready,
			Detail: health.Detail,
		})
	}
	return status
}
