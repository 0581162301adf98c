package model

import "time"

// InferenceStatus is the last observed health of the inference backend
type InferenceStatus struct {
	Backend   string    `json:"backend"`
	Model     string    `json:"model"`
	Available bool      `json:"available"`
	Models    []string  `json:"models,omitempty"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}
