package api

// QueueJob describes a queue entry in a transport-friendly format.
type QueueJob struct {
	ID             string   `json:"id"`
	Title          string   `json:"title,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	State          string   `json:"state"`
	RejectReason   string   `json:"rejectReason,omitempty"`
	ArtifactPath   string   `json:"artifactPath,omitempty"`
	TranscriptPath string   `json:"transcriptPath,omitempty"`
	LastError      string   `json:"lastError,omitempty"`
	Attempts       int      `json:"attempts,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	UpdatedAt      string   `json:"updatedAt,omitempty"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastJob     *QueueJob      `json:"lastJob,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	QueueDBPath  string         `json:"queueDbPath"`
	LockFilePath string         `json:"lockFilePath"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// IngestRequest carries a batch of submitted video URLs.
type IngestRequest struct {
	URLs []string `json:"urls"`
}

// IngestResponse reports the outcome of one submitted batch.
type IngestResponse struct {
	Accepted  int `json:"accepted"`
	Duplicate int `json:"duplicate"`
	Malformed int `json:"malformed"`
}

// QueueListResponse wraps a collection of queue jobs for API responses.
type QueueListResponse struct {
	Jobs []QueueJob `json:"jobs"`
}

// QueueStatsResponse provides a normalized queue stats payload.
type QueueStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// QueueClearResponse reports how many terminal jobs were pruned.
type QueueClearResponse struct {
	Removed int64 `json:"removed"`
}
