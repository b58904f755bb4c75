// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// JobStatus is the lifecycle state of a backend generator job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobGenerating JobStatus = "generating"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further status changes will occur.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// GenerateRequest describes the backend the generator should build.
type GenerateRequest struct {
	Prompt    string   `json:"prompt"`
	Name      string   `json:"name,omitempty"`
	Stack     string   `json:"stack,omitempty"`
	Features  []string `json:"features,omitempty"`
	Database  string   `json:"database,omitempty"`
	AuthStyle string   `json:"auth,omitempty"`
}

// Job is the server status record of a generator job. Only Status and
// Progress are guaranteed to be present.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Progress  float64   `json:"progress"`
	Step      string    `json:"step,omitempty"`
	Message   string    `json:"message,omitempty"`
	ResultURL string    `json:"result_url,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsTerminal reports whether the job reached completed or failed.
func (j Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// TrackedJob is the locally remembered generator job, so that a restarted
// client can resume tracking it.
type TrackedJob struct {
	JobID     string
	Prompt    string
	StartedAt time.Time
}
