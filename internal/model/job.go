package model

import "time"

// Status represents the lifecycle state of a conversion job
type Status string

const (
	StatusQueued     Status = "Queued"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusError      Status = "Error"
)

// Terminal reports whether the status is a final state
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Job represents the current state of one file's conversion, keyed by its
// source path in the store
type Job struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchResult represents the outcome of one pattern submission
type BatchResult struct {
	Queued    int      `json:"queued"`
	Files     []string `json:"files"`
	Unmatched []string `json:"unmatched,omitempty"`
}
