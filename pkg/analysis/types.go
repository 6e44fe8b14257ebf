package analysis

import (
	"errors"
	"time"
)

// Status is the lifecycle state of an analysis session. Transitions are
// forward-only: running -> completed or running -> error, nothing after.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

var (
	// ErrSessionNotFound is returned for lookups with an unknown session id.
	ErrSessionNotFound = errors.New("analysis session not found")

	// ErrSessionNotReady is returned when results are requested before the
	// session has completed.
	ErrSessionNotReady = errors.New("analysis not completed yet")
)

// Insight is one unit of output produced by a single analysis step.
// Insights are appended in step order and never rewritten.
type Insight struct {
	ID              int      `json:"insight_id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Confidence      float64  `json:"confidence"`
	DataSources     []string `json:"data_sources"`
	Recommendations []string `json:"recommendations"`
}

// StatusView is the poll snapshot of a session.
type StatusView struct {
	ID                 string `json:"analysis_id"`
	Status             Status `json:"status"`
	Progress           int    `json:"progress"`
	CurrentStep        string `json:"current_step"`
	EstimatedRemaining int    `json:"estimated_time_remaining"`
}

// ResultsView is the terminal output of a completed session.
type ResultsView struct {
	ID                  string    `json:"analysis_id"`
	Query               string    `json:"query"`
	Insights            []Insight `json:"insights"`
	CompletionTime      time.Time `json:"completion_time"`
	TotalProcessingTime float64   `json:"total_processing_time"`
}

// session is the mutable record behind one analysis job. Only the session's
// own step runner writes to it after creation; readers get copies.
type session struct {
	id                 string
	status             Status
	progress           int
	currentStep        string
	estimatedRemaining int
	query              string
	kind               string
	insights           []Insight
	startTime          time.Time
	completionTime     time.Time
	totalProcessing    float64
	errorMessage       string
}
