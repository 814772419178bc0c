package model

import "time"

// Run is one recorded extraction run.
type Run struct {
	ID        string    `json:"id"`
	InputDir  string    `json:"input_dir"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Stats     RunStats  `json:"stats"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
