package queue

import (
	"strings"
	"time"
)

// State is the derived lifecycle state computed from a job's stored flags.
type State string

const (
	StatePendingMetadata      State = "pending_metadata"
	StatePendingDownload      State = "pending_download"
	StatePendingTranscription State = "pending_transcription"
	StateRejected             State = "rejected"
	StateDone                 State = "done"
)

var allStates = []State{
	StatePendingMetadata,
	StatePendingDownload,
	StatePendingTranscription,
	StateRejected,
	StateDone,
}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// AllStates returns the ordered list of known derived states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stateSet[normalized]
	return normalized, ok
}

// Job represents a tracked video moving through the pipeline, persisted in SQLite.
type Job struct {
	ID             string
	Title          string
	Keywords       []string
	MetadataSet    bool
	Downloaded     bool
	Transcribed    bool
	Rejected       bool
	RejectReason   string
	ArtifactPath   string
	TranscriptPath string
	LastError      string
	Attempts       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasMetadata reports whether the metadata stage has completed for this job.
// A recorded title may legitimately be empty, so the marker is explicit
// rather than derived from field contents.
func (j *Job) HasMetadata() bool {
	return j.MetadataSet
}

// State derives the lifecycle state from the stored flags. The flag
// combinations are constrained by the store's transition guards, so exactly
// one state applies to any persisted job.
func (j *Job) State() State {
	switch {
	case j.Rejected:
		return StateRejected
	case j.Transcribed:
		return StateDone
	case j.Downloaded:
		return StatePendingTranscription
	case j.HasMetadata():
		return StatePendingDownload
	default:
		return StatePendingMetadata
	}
}

// Terminal reports whether the job has reached a state no stage mutates further.
func (j *Job) Terminal() bool {
	state := j.State()
	return state == StateRejected || state == StateDone
}

// HealthSummary describes aggregated job counts per derived state.
type HealthSummary struct {
	Total                 int
	PendingMetadata       int
	PendingDownload       int
	PendingTranscription  int
	Rejected              int
	Done                  int
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalJobs        int
	Error            string
}
